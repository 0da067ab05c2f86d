package agents

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/abcfit/fitbanker-go/internal/a2a"
	"github.com/abcfit/fitbanker-go/internal/providers"
	"github.com/abcfit/fitbanker-go/internal/store"
	"github.com/abcfit/fitbanker-go/internal/transcript"
)

// User-visible replies for the deterministic paths.
const (
	loginFailedReply       = "Invalid credentials. Please check your email and password."
	loginErrorReply        = "Sorry, there was an error during login. Please try again."
	emailTakenReply        = "This email is already registered. Would you like to login instead?"
	registrationErrorReply = "Sorry, there was an error creating your account. Please try again."
	profileSavedReply      = "Your health profile has been updated!"
	profileErrorReply      = "Sorry, there was an error saving your profile."
	accountCreatedReply    = "Account created successfully! You can now login with your email."
	logoutFirstReply       = "Logging you out..."
	logoutSecondReply      = "You've been logged out successfully. Take care!"
)

// Result is a specialist's outcome for one routed request.
type Result struct {
	Messages []StreamMessage
	Status   string

	// SessionID carries a freshly issued session token (login success).
	SessionID string
	// SessionCleared reports that an existing session was revoked (logout).
	SessionCleared bool
	// UserID is set when an account was created or verified.
	UserID int64
}

// Specialist handles routed envelopes for one domain capability. All five
// variants share this control flow; the spec supplies the prompt, the auth
// gate, and implicitly which storage command its decisions may trigger.
type Specialist struct {
	spec       SpecialistSpec
	provider   providers.LLMProvider
	transcript *transcript.Store
	store      store.Store
}

// NewSpecialist creates a specialist from its spec and registers its card.
func NewSpecialist(spec SpecialistSpec, channel *a2a.Channel, provider providers.LLMProvider, ts *transcript.Store, st store.Store) *Specialist {
	s := &Specialist{
		spec:       spec,
		provider:   provider,
		transcript: ts,
		store:      st,
	}
	channel.Register(spec.Card())
	return s
}

// ID returns the specialist's agent ID.
func (s *Specialist) ID() string { return s.spec.ID }

// Handle consumes one routed envelope and produces the specialist's
// fragments and final status. Every fragment is recorded in the transcript
// attributed to the boss agent before the result is returned.
func (s *Specialist) Handle(ctx context.Context, env a2a.Envelope) Result {
	sessionID := env.MetaString(a2a.MetaSessionID)
	session := sessionFromEnvelope(env)

	var res Result
	switch {
	case s.spec.RequireAuth && (session == nil || !session.Authenticated):
		res = Result{
			Messages: []StreamMessage{{Content: s.spec.AuthReply}},
			Status:   StatusAuthRequired,
		}
	case s.spec.ID == LogoutAgentID:
		res = s.logout(ctx, sessionID)
	default:
		res = s.decideAndAct(ctx, env, session)
	}

	for _, msg := range res.Messages {
		s.transcript.Append(sessionID, "assistant", msg.Content, BossAgentID)
	}
	return res
}

func sessionFromEnvelope(env a2a.Envelope) *store.SessionInfo {
	session, _ := env.Metadata[a2a.MetaSession].(*store.SessionInfo)
	return session
}

// logout always succeeds from the user's point of view; revocation is
// best-effort.
func (s *Specialist) logout(ctx context.Context, sessionID string) Result {
	res := Result{
		Messages: []StreamMessage{
			{Content: logoutFirstReply},
			{Content: logoutSecondReply},
		},
		Status: StatusLoggedOut,
	}
	if sessionID != "" {
		if err := s.store.DeleteSession(ctx, sessionID); err != nil {
			log.Printf("[%s] ⚠️ Session revocation failed: %v", s.spec.ID, err)
		}
		res.SessionCleared = true
	}
	return res
}

// decideAndAct runs one completion call, then performs at most one storage
// side effect when the decision signals readiness.
func (s *Specialist) decideAndAct(ctx context.Context, env a2a.Envelope, session *store.SessionInfo) Result {
	userMsg := env.MetaString(a2a.MetaOriginalMessage)
	chatContext := env.MetaString(a2a.MetaChatContext)

	prompt := fmt.Sprintf(`MAIN AGENT REQUEST: %s
USER SAID: %s
CHAT HISTORY: %s

Decide the current status and generate 2-4 streaming messages for a natural flow.`,
		env.Content, userMsg, chatContext)

	var decision SpecialistDecision
	raw, err := s.provider.Chat(ctx, providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: s.spec.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("[%s] ⚠️ Completion failed: %v", s.spec.ID, err)
		decision = SpecialistDecision{
			StreamMessages: []StreamMessage{{Content: providerUnavailableReply}},
			Status:         s.spec.FallbackStatus,
		}
	} else {
		decision = parseSpecialistDecision(raw, s.spec.FallbackStatus)
	}

	switch {
	case decision.Status == StatusVerifying && decision.VerifyCredentials != nil:
		return s.verifyCredentials(ctx, decision)
	case decision.Status == StatusReady && decision.CreateUser != nil:
		return s.createAccount(ctx, decision)
	case decision.Status == StatusReady && decision.ProfileData != nil && session != nil:
		return s.saveProfile(ctx, decision, session.UserID)
	}

	return Result{Messages: decision.StreamMessages, Status: decision.Status}
}

func (s *Specialist) verifyCredentials(ctx context.Context, decision SpecialistDecision) Result {
	creds := decision.VerifyCredentials

	user, err := s.store.VerifyCredentials(ctx, creds.Identifier, creds.Password)
	if err != nil {
		log.Printf("[%s] ⚠️ Credential check failed: %v", s.spec.ID, err)
		return Result{
			Messages: []StreamMessage{{Content: loginErrorReply}},
			Status:   StatusFailed,
		}
	}
	if user == nil {
		return Result{
			Messages: []StreamMessage{{Content: loginFailedReply}},
			Status:   StatusFailed,
		}
	}

	token, err := s.store.CreateSession(ctx, user.UserID)
	if err != nil {
		log.Printf("[%s] ⚠️ Session issue failed: %v", s.spec.ID, err)
		return Result{
			Messages: []StreamMessage{{Content: loginErrorReply}},
			Status:   StatusFailed,
		}
	}

	name := user.Name
	if name == "" {
		name = "there"
	}
	return Result{
		Messages:  append(decision.StreamMessages, StreamMessage{Content: fmt.Sprintf("Login successful! Welcome back, %s!", name)}),
		Status:    StatusSuccess,
		SessionID: token,
		UserID:    user.UserID,
	}
}

func (s *Specialist) createAccount(ctx context.Context, decision SpecialistDecision) Result {
	payload := decision.CreateUser

	userID, err := s.store.CreateAccount(ctx, store.NewAccount{
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
		Name:     payload.Name,
	})
	if errors.Is(err, store.ErrEmailTaken) {
		return Result{
			Messages: []StreamMessage{{Content: emailTakenReply}},
			Status:   StatusError,
		}
	}
	if err != nil {
		log.Printf("[%s] ⚠️ Account creation failed: %v", s.spec.ID, err)
		return Result{
			Messages: []StreamMessage{{Content: registrationErrorReply}},
			Status:   StatusError,
		}
	}

	return Result{
		Messages: append(decision.StreamMessages, StreamMessage{Content: accountCreatedReply}),
		Status:   StatusCreated,
		UserID:   userID,
	}
}

func (s *Specialist) saveProfile(ctx context.Context, decision SpecialistDecision, userID int64) Result {
	if err := s.store.UpsertProfile(ctx, userID, *decision.ProfileData); err != nil {
		log.Printf("[%s] ⚠️ Profile save failed: %v", s.spec.ID, err)
		return Result{
			Messages: []StreamMessage{{Content: profileErrorReply}},
			Status:   StatusError,
		}
	}

	return Result{
		Messages: append(decision.StreamMessages, StreamMessage{Content: profileSavedReply}),
		Status:   StatusCreated,
	}
}
