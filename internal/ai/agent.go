package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-cashflow/internal/cashflow"
	"go-cashflow/internal/database"
	"go-cashflow/internal/utils"
	"go-cashflow/internal/visitors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	modelName     = "gemini-2.0-flash-001"
	maxToolRounds = 4
)

var ErrUnknownTool = errors.New("unknown tool")

// Agent answers an administrator's cashflow questions with read-only tools.
type Agent struct {
	apiKey   string
	cashflow *cashflow.Service
	visitors *visitors.Service
	now      func() time.Time
}

func NewAgent(apiKey string, cf *cashflow.Service, vs *visitors.Service) *Agent {
	return &Agent{apiKey: apiKey, cashflow: cf, visitors: vs, now: time.Now}
}

func (a *Agent) Ask(ctx context.Context, userMessage string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.Tools = tools()

	today := a.now().In(a.cashflow.Location()).Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the cashflow assistant for the administrator of a multi-store POS.

	RULES:
	1. For income, expense or net cash questions call 'get_cashflow_summary'. Leave tenant_id out for all stores; pass date (YYYY-MM-DD) for a single day.
	2. If the user names a store, call 'list_tenants' first to find its ID.
	3. For visitor or traffic questions call 'get_visitor_counts'.
	4. Amounts are Indonesian Rupiah. Quote the *_formatted fields when answering.

	USER: %s`, today, userMessage)

	chat := model.StartChat()
	resp, err := chat.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		call, ok := firstCall(resp)
		if !ok {
			break
		}
		result, err := a.executeTool(ctx, call.Name, call.Args)
		if err != nil {
			result = map[string]any{"error": err.Error()}
		}
		resp, err = chat.SendMessage(ctx, genai.FunctionResponse{Name: call.Name, Response: result})
		if err != nil {
			return "", err
		}
	}
	return printResponse(resp), nil
}

func tools() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "get_cashflow_summary",
					Description: "Total income, total expense and net cash from the ledger, for one store or all stores, optionally for a single day.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"tenant_id": {Type: genai.TypeInteger, Description: "Store ID; omit for all stores"},
							"date":      {Type: genai.TypeString, Description: "Day (YYYY-MM-DD); omit for all time"},
						},
					},
				},
				{
					Name:        "list_tenants",
					Description: "List every store with its ID, name, creation date and all-time net cash.",
				},
				{
					Name:        "get_visitor_counts",
					Description: "Number of gate visitors today and in total.",
				},
			},
		},
	}
}

// executeTool runs one tool call against the services.
func (a *Agent) executeTool(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	switch name {
	case "get_cashflow_summary":
		scope := cashflow.Scope{}
		if v, ok := args["tenant_id"].(float64); ok && v > 0 {
			scope.TenantID = uint(v)
		}
		if v, ok := args["date"].(string); ok && v != "" {
			day, err := time.ParseInLocation("2006-01-02", v, a.cashflow.Location())
			if err != nil {
				return nil, fmt.Errorf("date must be in YYYY-MM-DD format")
			}
			r := database.DayRange(day, a.cashflow.Location())
			scope.Range = &r
		}
		sum, err := a.cashflow.Totals(ctx, scope)
		if err != nil {
			return nil, err
		}
		return summaryResult(sum), nil

	case "list_tenants":
		rows, err := a.cashflow.TenantOverviews(ctx)
		if err != nil {
			return nil, err
		}
		tenants := make([]map[string]any, 0, len(rows))
		for _, r := range rows {
			t := map[string]any{
				"id":         r.ID,
				"store_name": r.StoreName,
				"created_at": r.CreatedAt.Format(time.RFC3339),
			}
			if r.Cashflow != nil {
				t["net_cash"] = r.Cashflow.NetCash.String()
				t["net_cash_formatted"] = utils.FormatRupiah(r.Cashflow.NetCash)
			} else {
				t["error"] = r.CashflowError
			}
			tenants = append(tenants, t)
		}
		return map[string]any{"tenants": tenants}, nil

	case "get_visitor_counts":
		c, err := a.visitors.Counts(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"today": c.Today, "total": c.Total}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

func summaryResult(s cashflow.Summary) map[string]any {
	return map[string]any{
		"total_income":            s.TotalIncome.String(),
		"total_expense":           s.TotalExpense.String(),
		"net_cash":                s.NetCash.String(),
		"total_income_formatted":  utils.FormatRupiah(s.TotalIncome),
		"total_expense_formatted": utils.FormatRupiah(s.TotalExpense),
		"net_cash_formatted":      utils.FormatRupiah(s.NetCash),
	}
}

func firstCall(resp *genai.GenerateContentResponse) (genai.FunctionCall, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return genai.FunctionCall{}, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if call, ok := part.(genai.FunctionCall); ok {
			return call, true
		}
	}
	return genai.FunctionCall{}, false
}

func printResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "I completed the action."
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
