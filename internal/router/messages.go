package router

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mikey/phishguard/internal/core"
)

// Action names a message on the wire
type Action string

const (
	ActionGetSettings         Action = "getSettings"
	ActionUpdateSettings      Action = "updateSettings"
	ActionAddToWhitelist      Action = "addToWhitelist"
	ActionRemoveFromWhitelist Action = "removeFromWhitelist"
	ActionAnalyzeCurrentTab   Action = "analyzeCurrentTab"
	ActionCheckURL            Action = "checkURL"
)

// ErrUnknownAction is returned for an action outside the protocol
var ErrUnknownAction = errors.New("unknown action")

// Request is one of the message variants below. The unexported method
// closes the set.
type Request interface {
	Action() Action
	isRequest()
}

type GetSettings struct{}

type UpdateSettings struct {
	Settings core.Settings
}

type AddToWhitelist struct {
	Domain string
}

type RemoveFromWhitelist struct {
	Domain string
}

type AnalyzeCurrentTab struct{}

type CheckURL struct {
	URL string
}

func (GetSettings) Action() Action         { return ActionGetSettings }
func (UpdateSettings) Action() Action      { return ActionUpdateSettings }
func (AddToWhitelist) Action() Action      { return ActionAddToWhitelist }
func (RemoveFromWhitelist) Action() Action { return ActionRemoveFromWhitelist }
func (AnalyzeCurrentTab) Action() Action   { return ActionAnalyzeCurrentTab }
func (CheckURL) Action() Action            { return ActionCheckURL }

func (GetSettings) isRequest()         {}
func (UpdateSettings) isRequest()      {}
func (AddToWhitelist) isRequest()      {}
func (RemoveFromWhitelist) isRequest() {}
func (AnalyzeCurrentTab) isRequest()   {}
func (CheckURL) isRequest()            {}

// envelope is the wire shape {action, ...params}
type envelope struct {
	Action   Action         `json:"action"`
	Settings *core.Settings `json:"settings,omitempty"`
	Domain   *string        `json:"domain,omitempty"`
	URL      *string        `json:"url,omitempty"`
}

// DecodeRequest parses a wire message into its variant
func DecodeRequest(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}

	switch env.Action {
	case ActionGetSettings:
		return GetSettings{}, nil
	case ActionUpdateSettings:
		if env.Settings == nil {
			return nil, fmt.Errorf("%s: missing settings", env.Action)
		}
		return UpdateSettings{Settings: *env.Settings}, nil
	case ActionAddToWhitelist:
		if env.Domain == nil || *env.Domain == "" {
			return nil, fmt.Errorf("%s: missing domain", env.Action)
		}
		return AddToWhitelist{Domain: *env.Domain}, nil
	case ActionRemoveFromWhitelist:
		if env.Domain == nil || *env.Domain == "" {
			return nil, fmt.Errorf("%s: missing domain", env.Action)
		}
		return RemoveFromWhitelist{Domain: *env.Domain}, nil
	case ActionAnalyzeCurrentTab:
		return AnalyzeCurrentTab{}, nil
	case ActionCheckURL:
		if env.URL == nil {
			return nil, fmt.Errorf("%s: missing url", env.Action)
		}
		return CheckURL{URL: *env.URL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Action)
	}
}

// Response is one of the reply variants below
type Response interface {
	isResponse()
}

// SettingsResponse answers getSettings
type SettingsResponse struct {
	Settings  core.Settings `json:"settings"`
	Whitelist []string      `json:"whitelist"`
}

// AckResponse answers the mutating and fire-and-forget messages
type AckResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// CheckURLResponse answers checkURL; Result is null when nothing fresh is cached
type CheckURLResponse struct {
	Result *core.Verdict `json:"result"`
}

func (SettingsResponse) isResponse() {}
func (AckResponse) isResponse()      {}
func (CheckURLResponse) isResponse() {}

// Failure builds a negative acknowledgement
func Failure(err error) AckResponse {
	return AckResponse{Success: false, Error: err.Error()}
}
