package qna

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hirdyansh9/priv-lens/internal/pkg/logger"
	"github.com/Hirdyansh9/priv-lens/pkg/llm"
	"github.com/Hirdyansh9/priv-lens/pkg/retrieval"
)

// route is the kind of handling a user message needs.
type route string

const (
	routeGreeting route = "GREETING"
	routePolicy   route = "POLICY"
	routeGeneral  route = "GENERAL"
)

// Inputs that are plainly conversational skip the routing model.
var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {}, "hiya": {},
	"good morning": {}, "good afternoon": {}, "good evening": {},
	"thanks": {}, "thank you": {}, "ok": {}, "okay": {}, "bye": {}, "goodbye": {},
}

const routerPrompt = `Classify the user's message into exactly one category.

Categories:
- GREETING: a greeting or simple conversational remark with no real question (e.g. "hi", "thanks", "how are you")
- POLICY: a question about "this policy", "the document", "the company", or anything clearly about the specific privacy policy being discussed
- GENERAL: any other question about privacy, laws (like GDPR), cybersecurity, or other topics

User's message: %s

Respond with a single word: GREETING, POLICY, or GENERAL.`

const greetingPrompt = `You are a helpful assistant for a privacy policy analysis tool. The user sent a conversational message, not a question. Respond briefly and warmly, and invite them to ask about the policy being discussed.

User's message: %s`

const ragPrompt = `You are an assistant for question-answering tasks.
Use ONLY the following pieces of retrieved context from the privacy policy to answer the question.
If the context does not contain the answer, say that the information is not found in the document.

Question: %s
Context: %s
Answer:`

const generalPrompt = `You are a knowledgeable privacy assistant. Answer the user's question about privacy, data protection laws, or cybersecurity clearly and accurately. If you are not certain, say so.

Question: %s`

// Engine answers conversational questions against an analyzed policy. A
// cheap routing step decides whether the message is small talk, a question
// about the stored document, or a general knowledge question; only document
// questions trigger retrieval.
type Engine struct {
	llm          llm.LLMProvider
	routerModel  string
	answerModel  string
	policies     *retrieval.PolicyRetriever
	contextPeers int
	logger       logger.ILogger
}

func NewEngine(
	provider llm.LLMProvider,
	routerModel, answerModel string,
	policies *retrieval.PolicyRetriever,
	log logger.ILogger,
) *Engine {
	return &Engine{
		llm:          provider,
		routerModel:  routerModel,
		answerModel:  answerModel,
		policies:     policies,
		contextPeers: 5,
		logger:       log,
	}
}

func (e *Engine) Answer(ctx context.Context, policyId uint, question string) (string, error) {
	r, err := e.classify(ctx, question)
	if err != nil {
		return "", err
	}

	e.logger.Debug("QnA", "message routed", map[string]interface{}{
		"policy_id": policyId,
		"route":     string(r),
	})

	switch r {
	case routeGreeting:
		return e.generate(ctx, e.routerModel, fmt.Sprintf(greetingPrompt, question))
	case routeGeneral:
		return e.generate(ctx, e.answerModel, fmt.Sprintf(generalPrompt, question))
	default:
		return e.answerFromPolicy(ctx, policyId, question)
	}
}

func (e *Engine) classify(ctx context.Context, question string) (route, error) {
	normalized := strings.ToLower(strings.TrimRight(strings.TrimSpace(question), ".!?"))
	if _, ok := greetings[normalized]; ok {
		return routeGreeting, nil
	}

	raw, err := e.llm.Generate(ctx, fmt.Sprintf(routerPrompt, question),
		llm.WithModel(e.routerModel),
		llm.WithTemperature(0),
		llm.WithMaxTokens(8),
	)
	if err != nil {
		return "", fmt.Errorf("route question: %w", err)
	}

	switch {
	case strings.Contains(raw, string(routeGreeting)):
		return routeGreeting, nil
	case strings.Contains(raw, string(routeGeneral)):
		return routeGeneral, nil
	default:
		// Unrecognized router output defaults to the document, which is
		// what most questions in this product are about.
		return routePolicy, nil
	}
}

func (e *Engine) answerFromPolicy(ctx context.Context, policyId uint, question string) (string, error) {
	docs, err := e.policies.Search(ctx, policyId, question, e.contextPeers)
	if err != nil {
		return "", err
	}

	policyContext := strings.Join(docs, "\n\n")
	if policyContext == "" {
		policyContext = "No relevant sections were found in the document."
	}

	return e.generate(ctx, e.answerModel, fmt.Sprintf(ragPrompt, question, policyContext))
}

func (e *Engine) generate(ctx context.Context, model, prompt string) (string, error) {
	reply, err := e.llm.Generate(ctx, prompt,
		llm.WithModel(model),
		llm.WithTemperature(0),
	)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
