package agents

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abcfit/fitbanker-go/internal/a2a"
)

// Well-known agent IDs.
const (
	BossAgentID         = "main_agent"
	RegistrationAgentID = "registration_agent"
	LoginAgentID        = "login_agent"
	ProfileAgentID      = "profile_agent"
	HealthAgentID       = "health_agent"
	LogoutAgentID       = "logout_agent"
)

// SpecialistSpec configures one specialist agent. The five variants share
// one control flow and differ only in prompt, auth requirement, and which
// storage command their decisions may trigger.
type SpecialistSpec struct {
	ID             string   `yaml:"id"`
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	Capabilities   []string `yaml:"capabilities"`
	RequireAuth    bool     `yaml:"require_auth"`
	SystemPrompt   string   `yaml:"system_prompt"`
	FallbackStatus string   `yaml:"fallback_status"`
	AuthReply      string   `yaml:"auth_reply"`
}

// Card returns the spec's registration card for the agent channel.
func (s SpecialistSpec) Card() a2a.AgentCard {
	return a2a.AgentCard{
		AgentID:      s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Capabilities: s.Capabilities,
	}
}

// BossCard is the coordinating agent's registration record.
func BossCard() a2a.AgentCard {
	return a2a.AgentCard{
		AgentID:      BossAgentID,
		Name:         "Main Boss Agent",
		Description:  "Primary coordinator with streaming responses",
		Capabilities: []string{"User interaction", "Agent coordination", "Stream management"},
	}
}

const bossSystemPrompt = `You are the MAIN BOSS AGENT for the ABC+ Fit Banker health chatbot.

YOUR ROLE:
- You are the ONLY agent that talks directly to users
- You coordinate a team of specialist agents
- You send MULTIPLE progressive messages to keep users engaged

YOUR TEAM:
1. registration_agent - New account creation
2. login_agent - User authentication
3. profile_agent - Health profile management (auth required)
4. health_agent - Health tips and advice (auth required)
5. logout_agent - Logout handling

STREAMING RULES:
- Send 2-4 progressive messages for ANY action
- First message: acknowledge, middle: progress, final: result or question

ROUTING LOGIC:
- Registration keywords -> registration_agent
- Login keywords -> login_agent
- Profile keywords -> profile_agent
- Health questions -> health_agent
- Logout -> logout_agent

RESPONSE FORMAT (JSON):
{
  "action": "route" | "respond",
  "to_agent": "agent_id",
  "stream_messages": [
    {"content": "first message"},
    {"content": "second message"}
  ],
  "reasoning": "why"
}

PERSONALITY: Friendly, warm, encouraging. Use emojis sparingly.`

const registrationPrompt = `You are the REGISTRATION SPECIALIST agent.

YOUR JOB:
- Collect email, phone, password, name through conversation
- Create accounts when you have all info
- Send MULTIPLE streaming messages for natural flow

RESPONSE FORMAT (JSON):
{
  "stream_messages": [
    {"content": "Great! Let's create your account"},
    {"content": "I'll need your email address"}
  ],
  "status": "collecting" | "ready" | "created",
  "create_user": {
    "email": "...",
    "phone": "...",
    "password": "...",
    "name": "..."
  }
}

When status is "ready", include create_user with all fields.

Be warm and helpful!`

const loginPrompt = `You are the LOGIN SPECIALIST agent.

YOUR JOB:
- Collect email/phone and password through conversation
- Verify credentials and create sessions
- Send MULTIPLE streaming messages for engaging flow

RESPONSE FORMAT (JSON):
{
  "stream_messages": [
    {"content": "Let me log you in!"},
    {"content": "Verifying credentials..."}
  ],
  "status": "collecting" | "verifying" | "success" | "failed",
  "verify_credentials": {
    "identifier": "email or phone",
    "password": "password"
  }
}

When status is "verifying", include verify_credentials.

Be encouraging!`

const profilePrompt = `You are the PROFILE SPECIALIST agent.

YOUR JOB:
- Manage health profiles (create/update/view)
- Collect age, gender, height, weight, goals, conditions
- Send MULTIPLE streaming messages

RESPONSE FORMAT (JSON):
{
  "stream_messages": [
    {"content": "Let's set up your health profile!"},
    {"content": "First, what's your age?"}
  ],
  "status": "collecting" | "ready" | "created",
  "profile_data": {
    "age": 30,
    "gender": "female",
    "height_cm": 165,
    "weight_kg": 60,
    "activity_level": "moderate",
    "diet_preference": "vegetarian",
    "health_goals": ["weight_loss", "energy"],
    "health_conditions": []
  }
}

When status is "ready", include profile_data.

Be supportive and health-focused!`

const healthPrompt = `You are the HEALTH SPECIALIST agent for ABC+ Fit Banker.

YOUR JOB:
- Answer health, nutrition, fitness questions
- Provide evidence-based advice
- Send MULTIPLE streaming messages

KNOWLEDGE AREAS:
- Nutrition, exercise, sleep, stress management, hydration
- Indian diet options (vegetarian, non-veg)

RESPONSE FORMAT (JSON):
{
  "stream_messages": [
    {"content": "Great question! Let me help with that."},
    {"content": "For protein, you can try lentils, chickpeas, paneer..."}
  ],
  "status": "answered"
}

RULES:
- Be evidence-based but accessible
- Add disclaimers for medical advice
- Be warm and supportive`

// DefaultSpecs returns the built-in five specialist configurations.
func DefaultSpecs() []SpecialistSpec {
	return []SpecialistSpec{
		{
			ID:             RegistrationAgentID,
			Name:           "Registration Specialist",
			Description:    "Handles account creation",
			Capabilities:   []string{"Account creation", "Input validation"},
			SystemPrompt:   registrationPrompt,
			FallbackStatus: StatusCollecting,
		},
		{
			ID:             LoginAgentID,
			Name:           "Login Specialist",
			Description:    "Handles authentication with streaming",
			Capabilities:   []string{"Authentication", "Session management"},
			SystemPrompt:   loginPrompt,
			FallbackStatus: StatusCollecting,
		},
		{
			ID:             ProfileAgentID,
			Name:           "Profile Specialist",
			Description:    "Manages health profiles",
			Capabilities:   []string{"Profile management", "Health data collection"},
			RequireAuth:    true,
			SystemPrompt:   profilePrompt,
			FallbackStatus: StatusCollecting,
			AuthReply:      "You need to be logged in to manage your profile.",
		},
		{
			ID:             HealthAgentID,
			Name:           "Health Specialist",
			Description:    "Provides health tips and advice",
			Capabilities:   []string{"Health advice", "Nutrition guidance", "Fitness tips"},
			RequireAuth:    true,
			SystemPrompt:   healthPrompt,
			FallbackStatus: StatusAnswered,
			AuthReply:      "You need to be logged in to get personalized health advice.",
		},
		{
			ID:           LogoutAgentID,
			Name:         "Logout Specialist",
			Description:  "Handles logout",
			Capabilities: []string{"Session termination"},
			// Logout is fully deterministic; no prompt or LLM call.
			FallbackStatus: StatusLoggedOut,
		},
	}
}

// RouteTargets lists every agent ID the boss may route to.
func RouteTargets(specs []SpecialistSpec) []string {
	ids := make([]string, 0, len(specs))
	for _, s := range specs {
		ids = append(ids, s.ID)
	}
	return ids
}

// specsFile is the top-level structure of agents.yaml.
type specsFile struct {
	Agents []SpecialistSpec `yaml:"agents"`
}

// LoadSpecs reads specialist overrides from an agents.yaml file. A missing
// file yields the defaults; entries override defaults by ID so a deployment
// can retune a single prompt without restating the rest.
func LoadSpecs(path string) ([]SpecialistSpec, error) {
	defaults := DefaultSpecs()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return nil, fmt.Errorf("read agents.yaml: %w", err)
	}

	var f specsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse agents.yaml: %w", err)
	}

	byID := make(map[string]int, len(defaults))
	for i, s := range defaults {
		byID[s.ID] = i
	}
	for _, override := range f.Agents {
		i, ok := byID[override.ID]
		if !ok {
			return nil, fmt.Errorf("agents.yaml: unknown agent %q", override.ID)
		}
		merged := defaults[i]
		if override.Name != "" {
			merged.Name = override.Name
		}
		if override.Description != "" {
			merged.Description = override.Description
		}
		if len(override.Capabilities) > 0 {
			merged.Capabilities = override.Capabilities
		}
		if override.SystemPrompt != "" {
			merged.SystemPrompt = override.SystemPrompt
		}
		defaults[i] = merged
	}
	return defaults, nil
}
