package assistant

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/splitledger/internal/models"
)

// appKeywords mark a question as being about the ledger.
var appKeywords = []string{
	"user", "group", "expense", "balance", "settle", "owe", "debt",
	"money", "split", "bill", "pay", "paid", "member", "spent",
}

const helpText = "I can help you with:\n" +
	"• Viewing user information and counts\n" +
	"• Checking group details and members\n" +
	"• Reviewing expense balances and settlements\n" +
	"• Understanding who owes what to whom\n\n" +
	"Try asking: 'How many users are there?', 'List all groups', or 'Show me the balances'"

const offTopicText = "I can only help with questions about users, groups, expenses, balances, " +
	"and settlements in this ledger. How can I help you with your expenses today?"

// RuleBased answers with deterministic keyword rules. It is always available.
type RuleBased struct {
	p *message.Printer
}

// NewRuleBased creates a rule-based generator formatting amounts in US English.
func NewRuleBased() *RuleBased {
	return NewRuleBasedWithLanguage(language.AmericanEnglish)
}

// NewRuleBasedWithLanguage creates a rule-based generator formatting amounts for tag.
func NewRuleBasedWithLanguage(tag language.Tag) *RuleBased {
	return &RuleBased{p: message.NewPrinter(tag)}
}

func (r *RuleBased) Name() string    { return "rules" }
func (r *RuleBased) Available() bool { return true }

// Generate implements Generator.
func (r *RuleBased) Generate(_ context.Context, question string, data *Context) (string, error) {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "help", "what can you do", "how to"):
		return helpText, nil

	case !containsAny(q, appKeywords...):
		return offTopicText, nil

	case containsAny(q, "how many users", "number of users"):
		return r.p.Sprintf("There are %d users in the system.", len(data.Users)), nil

	case containsAny(q, "how many groups", "number of groups"):
		return r.p.Sprintf("There are %d groups in the system.", len(data.Groups)), nil

	case containsAny(q, "list users", "show users", "who are the users", "all users"):
		return r.listUsers(data), nil

	case containsAny(q, "list groups", "show groups", "what groups", "all groups"):
		return r.listGroups(data), nil
	}

	if strings.Contains(q, "owe") {
		if t, ok := mentionedUser(q, data.Totals); ok {
			return r.userOwes(t), nil
		}
	}

	switch {
	case strings.Contains(q, "latest") && strings.Contains(q, "expense"):
		return r.latestExpenses(data), nil

	case containsAny(q, "paid the most", "paid most"):
		return r.topPayer(data), nil

	case containsAny(q, "balance", "owe", "debt"):
		return r.balances(data), nil
	}

	return "I'm sorry, I couldn't understand your question. Try asking about balances, " +
		"latest expenses, or who paid the most.", nil
}

func (r *RuleBased) money(v float64) string {
	return r.p.Sprintf("$%.2f", v)
}

func (r *RuleBased) listUsers(data *Context) string {
	if len(data.Users) == 0 {
		return "No users found in the system."
	}
	var b strings.Builder
	b.WriteString("Here are the users:")
	for _, u := range data.Users {
		b.WriteString("\n• " + u.Name + " (" + u.Email + ")")
	}
	return b.String()
}

func (r *RuleBased) listGroups(data *Context) string {
	if len(data.Groups) == 0 {
		return "No groups found in the system."
	}
	var b strings.Builder
	b.WriteString("Here are the groups:")
	for _, g := range data.Groups {
		b.WriteString(r.p.Sprintf("\n• %s (%d members)", g.Name, len(g.Members)))
	}
	return b.String()
}

func (r *RuleBased) userOwes(t UserTotal) string {
	if t.Net < -models.AmountEpsilon {
		return t.Name + " owes a total of " + r.money(-t.Net)
	}
	return t.Name + " doesn't owe anything currently."
}

func (r *RuleBased) latestExpenses(data *Context) string {
	if len(data.Expenses) == 0 {
		return "No expenses found."
	}
	latest := data.Expenses[:min(3, len(data.Expenses))]

	var b strings.Builder
	b.WriteString(r.p.Sprintf("Latest %d expenses:", len(latest)))
	for _, e := range latest {
		b.WriteString("\n• " + e.Description + ": " + r.money(e.Amount) + " paid by " + e.PaidBy)
	}
	return b.String()
}

func (r *RuleBased) topPayer(data *Context) string {
	if len(data.Expenses) == 0 {
		return "No expenses found."
	}

	paid := make(map[string]float64)
	var order []string
	for _, e := range data.Expenses {
		if _, ok := paid[e.PaidBy]; !ok {
			order = append(order, e.PaidBy)
		}
		paid[e.PaidBy] += e.Amount
	}

	top := order[0]
	for _, name := range order[1:] {
		if paid[name] > paid[top] {
			top = name
		}
	}
	return top + " paid the most with " + r.money(paid[top])
}

func (r *RuleBased) balances(data *Context) string {
	var b strings.Builder
	for _, t := range data.Totals {
		switch {
		case t.Net > models.AmountEpsilon:
			b.WriteString("\n• " + t.Name + " is owed " + r.money(t.Net))
		case t.Net < -models.AmountEpsilon:
			b.WriteString("\n• " + t.Name + " owes " + r.money(-t.Net))
		}
	}
	if b.Len() == 0 {
		return "Everyone is settled up."
	}
	return "Here's the balance information:" + b.String()
}

// mentionedUser returns the user whose name appears in q, preferring the
// longest match.
func mentionedUser(q string, totals []UserTotal) (UserTotal, bool) {
	var best UserTotal
	found := false
	for _, t := range totals {
		name := strings.ToLower(t.Name)
		if name == "" || !strings.Contains(q, name) {
			continue
		}
		if !found || len(name) > len(best.Name) {
			best, found = t, true
		}
	}
	return best, found
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
