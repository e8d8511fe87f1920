// Package agent implements the interactive assistant behind "shd assist".
//
// The conversation is fronted by a facilitator that consults domain experts
// as tools: the Treasurer reads the local treasury state, the Analyst grounds
// market questions with search.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/chris-ricketts/shade"
	"github.com/chris-ricketts/shade/docs"
	"github.com/chris-ricketts/shade/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expect from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the experts' skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is the treasury admin. He is here primarily to understand where his
			tokens sit, what each allocation list does with inbound funds, and what the
			monthly allowance refresh is going to emit.

			Devise a plan of questions to ask each expert and come up with the best response to the user's request.

			The user will assume that you checked the treasury first and know which assets are registered.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the search-grounded expert for everything that lives
// outside the treasury: tokens, protocols and the news around them.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert analyst of the token ecosystem,
		very well aware of the protocols, the tokens and the teams behind them,
		and of the latest news about them.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in token markets and DeFi protocols. You can search and find
			about anything related to tokens, staking providers, applications and markets.
			You leverage Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewTreasurer returns the expert in charge of reading the treasury's state.
// open loads the treasury the same way the CLI commands do, so the expert
// always answers from the current files.
func NewTreasurer(open func() (*shade.Treasury, error)) *Expert {

	lib := []Function{listAssets(open), getAllocations(open), treasuryStatus(open)}

	return &Expert{
		Name: "Treasurer",
		Description: `This is the Treasurer. He is in charge of reading the treasury's state:
		the registered assets, their allocation lists, and the live balances.
		He can produce the relevant figures about what the treasury holds and where it flows.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are the treasurer in charge of the user's token treasury.
				You know how to use the Tools to extract relevant information about it.
				You are part of a team of experts, yours is everything about the treasury's state. They might ask
				you questions about it, pardon their approximative language and figure out what they meant.

				Use the available tools to get information about the treasury
				  - list of registered assets
				  - per-asset allocation lists
				  - the full status report
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func listAssets(open func() (*shade.Treasury, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "list_assets",
			Description: `list_assets lists the registered assets of the treasury,
			with their symbol, name, contract address and decimals.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "One line per registered asset.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, err := open()
			if err != nil {
				return errResponse(id, "list_assets", err)
			}
			assets, err := t.Assets()
			if err != nil {
				return errResponse(id, "list_assets", err)
			}
			var b strings.Builder
			for _, a := range assets {
				fmt.Fprintf(&b, "- %s: %s, %d decimals\n", a, a.Token.Name, a.Token.Decimals)
			}
			if b.Len() == 0 {
				b.WriteString("no registered assets\n")
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "list_assets",
				Response: map[string]any{
					"output": b.String(),
				},
			}
		},
	}
}

func getAllocations(open func() (*shade.Treasury, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "get_allocations",
			Description: `get_allocations reports one asset: its live custody balance,
			the portion its allocation list claims, and the list itself, entry by entry.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"asset": {
						Type:        genai.TypeString,
						Description: "The asset to report: its contract address, or its symbol.",
					},
				},
				Required: []string{"asset"},
			},
			Response: &genai.Schema{
				Type: genai.TypeString,
				Description: `A markdown report of the asset's allocation list, one row per entry.

				` + must(docs.GetTopic("allocation")),
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			key, ok := args["asset"].(string)
			if !ok {
				return errResponse(id, "get_allocations", fmt.Errorf("argument 'asset' is not a string as expected but %T", args["asset"]))
			}
			t, err := open()
			if err != nil {
				return errResponse(id, "get_allocations", err)
			}
			a, err := findAsset(t, key)
			if err != nil {
				return errResponse(id, "get_allocations", err)
			}
			view, err := renderer.NewAssetView(t, a)
			if err != nil {
				return errResponse(id, "get_allocations", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "get_allocations",
				Response: map[string]any{
					"output": renderer.RenderAllocations(view),
				},
			}
		},
	}
}

func treasuryStatus(open func() (*shade.Treasury, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "treasury_status",
			Description: `treasury_status reports the whole treasury: the admin and treasury accounts
			and, per registered asset, the live custody balance and the claimed portion.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report with one table row per registered asset.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			t, err := open()
			if err != nil {
				return errResponse(id, "treasury_status", err)
			}
			status, err := renderer.NewStatus(t)
			if err != nil {
				return errResponse(id, "treasury_status", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "treasury_status",
				Response: map[string]any{
					"output": renderer.RenderStatus(status),
				},
			}
		},
	}
}

// findAsset resolves a user-facing asset key, address or symbol, to its
// registry record.
func findAsset(t *shade.Treasury, key string) (shade.Asset, error) {
	assets, err := t.Assets()
	if err != nil {
		return shade.Asset{}, err
	}
	for _, a := range assets {
		if string(a.Address()) == key || strings.EqualFold(a.Token.Symbol, key) {
			return a, nil
		}
	}
	return shade.Asset{}, fmt.Errorf("no registered asset matches %q", key)
}
