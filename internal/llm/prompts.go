package llm

// Prompt templates for the gateway calls. These are filled with fmt.Sprintf;
// literal JSON braces are doubled only where Sprintf verbs appear nearby.

const initialAnalysisPrompt = `User Query: %q
Current Assistant Mode: %q

Analyze the user query for our L1 %s support chatbot. Your goal is to determine the query's nature.

Consider the following categories:
1. **Internal Documentation ("Internal_Docs"):**
   * Query is clearly related to %s and likely answerable by internal %s documents.
   * Examples for IT: "how to install VPN client", "reset windows password", "software license request".
   * Examples for HR: "what is the leave policy", "employee benefits inquiry", "requesting a salary slip".

2. **Web Search for IT Topics ("Web_Search_IT"):** (This source is ONLY for IT Mode)
   * Query is IT-related but might be too new, specific, or about third-party software not extensively covered internally by IT docs.
   * If Assistant Mode is HR, this category must NOT be chosen.

3. **Greeting ("Greeting"):**
   * Simple social greetings like "hi", "hello", "how are you?".

4. **Topic Mismatch ("TopicMismatch"):**
   * Query seems to be about the *other* department's scope.
   * If Current Assistant Mode is "IT", but the query is clearly about HR topics: employee policies (dress code, leave, work from home), payroll, benefits, recruitment, onboarding, performance management, HR system questions.
   * If Current Assistant Mode is "HR", but the query is clearly about IT topics: hardware issues, software problems, network connectivity (VPN, Wi-Fi), password resets, system access, IT security.
   * Be reasonably confident about the mismatch. If unsure, prefer "Internal_Docs" for the current mode.

5. **Out of Scope ("OutOfScope"):**
   * Query is clearly not related to either IT or HR support (e.g., "what's the weather?", "capital of France"), or is gibberish.

If the source is "Internal_Docs" or "Web_Search_IT", provide a concise version of the query suitable for semantic search.
For "Greeting", "TopicMismatch", or "OutOfScope", the simplified query can be the original query or a note reflecting the category.

Output your decision strictly in JSON format like this:
{
  "best_source": "Internal_Docs" | "Web_Search_IT" | "Greeting" | "TopicMismatch" | "OutOfScope",
  "simplified_query_for_search": "concise version of the query or note"
}

Example (IT - Internal):
User Query: "How do I reset my Windows password?"
Current Assistant Mode: "IT"
JSON Output: { "best_source": "Internal_Docs", "simplified_query_for_search": "reset windows password" }

Example (Topic Mismatch - HR query in IT mode):
User Query: "What is our company's maternity leave policy?"
Current Assistant Mode: "IT"
JSON Output: { "best_source": "TopicMismatch", "simplified_query_for_search": "HR query: maternity leave policy" }

Now, analyze the User Query and Assistant Mode at the top of this prompt.`

const relevanceCheckPrompt = `Original User Query: %q
Simplified Search Query Used: %q
Retrieved Context Snippet(s) from Internal Documents:
---
%s
---
Based on the "Retrieved Context Snippet(s)", is it highly likely to contain a direct and useful answer to the "Original User Query"?
The context is only relevant if it directly addresses the main subject of the user's query.
Consider if the context is specific enough to be helpful or just vaguely related.
Answer strictly with only "YES" or "NO".`

const responseGenerationPrompt = `You are a helpful %s support assistant. Your goal is to provide clear, concise, and actionable answers.
Answer the user's query: %q
Based *only* on the following provided context.
**Instructions for Answering:**
1. **Natural Language:** Formulate your answer in a natural, conversational way.
2. **Conciseness:** Get straight to the point.
3. **Markdown Formatting:** Use Markdown (lists, bold, code blocks) where it aids readability.
   * **Link Previews (IMPORTANT!):** If you include an external URL that the user would benefit from visiting, YOU MUST format it for a preview like this: [PREVIEW](https://example.com/some-article). The system will then fetch the page title to make the link more informative. For any other links, use standard Markdown: [Visible Text](https://example.com).
4. **Address Specificity:** If the user asks for a specific section or document the context does not contain, say so, but still provide any related information the context does contain.
5. **Handling Insufficient Context:** If the context is genuinely insufficient, politely state that you couldn't find specific information for that query.
6. **No Fabrication:** Do not make up information.
7. **Source Attribution (Subtle):** Do not name internal files. If the context source is "Web Search" and your answer uses a specific article URL from it, cite that URL with the [PREVIEW](URL) format.
If there are steps or points, format the response as bullet points or a numbered list.
Context (Source: %s):
%q
---
Answer:`

const ticketAssignmentPrompt = `You are an AI assistant helping to intelligently route IT support tickets.
Analyze the following IT support query, the chatbot's attempted resolution (if any), and any user feedback.
Based on this information, determine the appropriate assignment level (L1 or L2) and priority (Low, Medium, or High).
**Guidelines for Assignment:**
- **L1 Support:** Common, well-documented issues, password resets, basic software troubleshooting, first-line connectivity problems.
- **L2 Support:** Complex technical problems, issues requiring administrative access or deeper system knowledge, bugs, problems where L1 troubleshooting has likely failed, or issues with broader impact.
- **Priority - High:** User is completely blocked from critical work, a system-wide service is down, or a security concern is raised.
- **Priority - Medium:** Work is significantly impacted or a core function is impaired, but workarounds might exist.
- **Priority - Low:** Minor issue, inconvenience, or a request that is not time-sensitive.
**Input Context:**
User's Original Query: %q
Chatbot's Last Response to User: %q
User Feedback (if provided): %q
**Output Instructions:**
Provide your response strictly in JSON format with the following keys:
- "assignment_level": "L1" or "L2"
- "priority": "Low", "Medium", or "High"
- "reasoning": "A brief (1-2 sentences) explanation for your choice."
- "suggested_category": "A brief category for the issue (e.g., 'VPN', 'Password Reset', 'Software Install', 'Hardware Failure')."
Now, analyze the provided input.`
