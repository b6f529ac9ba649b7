package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"support-assistant/internal/llm"
	"support-assistant/internal/storage"
	storagemocks "support-assistant/internal/storage/mocks"
	"support-assistant/internal/vectorstore"
	vsmocks "support-assistant/internal/vectorstore/mocks"
)

func embeddingsServer(t *testing.T, dim int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode embeddings request: %v", err)
		}
		type item struct {
			Embedding []float64 `json:"embedding"`
		}
		resp := struct {
			Data []item `json:"data"`
		}{}
		for range req.Input {
			resp.Data = append(resp.Data, item{Embedding: make([]float64, dim)})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRetriever_Retrieve(t *testing.T) {
	srv := embeddingsServer(t, 4)
	embedder := llm.NewEmbeddingsClient(srv.URL, "test-key", "test-model", 4)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVS := vsmocks.NewMockVectorStore(ctrl)
	mockChunks := storagemocks.NewMockChunkStore(ctrl)

	hits := []vectorstore.SearchResult{
		{
			PointID: "c1",
			Score:   0.92,
			Meta: map[string]any{
				"rel_path":     "vpn/setup.md",
				"doc_title":    "VPN Setup",
				"heading_path": "VPN Setup > Installation",
			},
		},
		{
			PointID: "c2",
			Score:   0.81,
			Meta: map[string]any{
				"rel_path":  "vpn/faq.md",
				"doc_title": "VPN FAQ",
			},
		},
	}

	mockVS.EXPECT().
		Search(gomock.Any(), "support_docs", gomock.Any(), 5, "IT").
		Return(hits, nil)

	mockChunks.EXPECT().
		GetByID(gomock.Any(), "c1").
		Return(storage.Chunk{ID: "c1", Text: "Install the VPN client from the portal."}, nil)
	mockChunks.EXPECT().
		GetByID(gomock.Any(), "c2").
		Return(storage.Chunk{ID: "c2", Text: "Common VPN questions and answers."}, nil)

	retriever := NewRetriever(embedder, mockVS, "support_docs", mockChunks)

	result, err := retriever.Retrieve(context.Background(), "IT", "how do I set up vpn")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if !result.Found {
		t.Fatal("Retrieve() Found = false, want true")
	}
	if !strings.Contains(result.Context, "Source: VPN Setup (vpn/setup.md)") {
		t.Errorf("Retrieve() context missing source line, got %q", result.Context)
	}
	if !strings.Contains(result.Context, "Install the VPN client") {
		t.Errorf("Retrieve() context missing chunk text, got %q", result.Context)
	}
	if len(result.Sources) != 2 {
		t.Fatalf("Retrieve() sources = %d, want 2", len(result.Sources))
	}
	if result.Sources[0].RelPath != "vpn/setup.md" || result.Sources[0].Score != 0.92 {
		t.Errorf("Retrieve() first source = %+v, want vpn/setup.md with score 0.92", result.Sources[0])
	}
}

func TestRetriever_Retrieve_DepartmentBudgets(t *testing.T) {
	srv := embeddingsServer(t, 4)
	embedder := llm.NewEmbeddingsClient(srv.URL, "test-key", "test-model", 4)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVS := vsmocks.NewMockVectorStore(ctrl)
	mockChunks := storagemocks.NewMockChunkStore(ctrl)

	mockVS.EXPECT().
		Search(gomock.Any(), "support_docs", gomock.Any(), 3, "HR").
		Return(nil, nil)

	retriever := NewRetriever(embedder, mockVS, "support_docs", mockChunks)

	result, err := retriever.Retrieve(context.Background(), "HR", "parental leave policy")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if result.Found {
		t.Error("Retrieve() Found = true, want false for empty hits")
	}
}

func TestRetriever_Retrieve_SkipsMissingChunks(t *testing.T) {
	srv := embeddingsServer(t, 4)
	embedder := llm.NewEmbeddingsClient(srv.URL, "test-key", "test-model", 4)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockVS := vsmocks.NewMockVectorStore(ctrl)
	mockChunks := storagemocks.NewMockChunkStore(ctrl)

	hits := []vectorstore.SearchResult{
		{PointID: "gone", Score: 0.9, Meta: map[string]any{"rel_path": "a.md", "doc_title": "A"}},
	}
	mockVS.EXPECT().
		Search(gomock.Any(), "support_docs", gomock.Any(), 5, "IT").
		Return(hits, nil)
	mockChunks.EXPECT().
		GetByID(gomock.Any(), "gone").
		Return(storage.Chunk{}, storage.ErrNotFound)

	retriever := NewRetriever(embedder, mockVS, "support_docs", mockChunks)

	result, err := retriever.Retrieve(context.Background(), "IT", "anything")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if result.Found {
		t.Error("Retrieve() Found = true, want false when all chunks are missing")
	}
}
