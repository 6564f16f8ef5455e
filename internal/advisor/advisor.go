// Package advisor implements the rule-based budget assistant. Rules are an
// ordered list of (predicate, responder) pairs evaluated top to bottom;
// the first matching rule produces the reply.
package advisor

import (
	"fmt"
	"sort"
	"strings"

	"paisa/internal/core"
)

// Snapshot is the ledger state a reply is grounded on. The advisor never
// loads data itself; callers hand it the already-aggregated numbers.
type Snapshot struct {
	Budget         core.Money
	TotalSpent     core.Money
	CategoryTotals []core.CategoryAmount
}

// Savings is the remaining allowance in the snapshot's month.
func (s Snapshot) Savings() core.Money {
	return core.Savings(s.Budget, s.TotalSpent)
}

func (s Snapshot) categorySpend(category string) core.Money {
	for _, t := range s.CategoryTotals {
		if t.Category == category {
			return t.Amount
		}
	}
	return core.Money{}
}

// percentOfBudget is spend as a share of the monthly budget; 0 when no
// budget is set.
func (s Snapshot) percentOfBudget(spend core.Money) float64 {
	if s.Budget.Cents <= 0 {
		return 0
	}
	return float64(spend.Cents) / float64(s.Budget.Cents) * 100
}

type rule struct {
	matches func(message string) bool
	respond func(snap Snapshot, message string) string
}

// Advisor answers free-text questions about the current month's ledger.
type Advisor struct {
	rules []rule
}

func New() *Advisor {
	return &Advisor{rules: defaultRules()}
}

// Reply evaluates the rules in order against the lowercased message and
// returns the first match's response. The boolean reports whether any
// rule matched; callers use the fallback reply when it is false.
func (a *Advisor) Reply(message string, snap Snapshot) (string, bool) {
	lower := strings.ToLower(message)
	for _, r := range a.rules {
		if r.matches(lower) {
			return r.respond(snap, lower), true
		}
	}
	return fallbackReply(snap), false
}

func containsAny(message string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}

func defaultRules() []rule {
	return []rule{
		{
			matches: func(m string) bool { return containsAny(m, "spending", "spent", "summary") },
			respond: summaryReply,
		},
		{
			matches: func(m string) bool { return containsAny(m, "save", "tips", "reduce") },
			respond: savingTipsReply,
		},
		{
			matches: func(m string) bool { return containsAny(m, "budget", "plan") },
			respond: budgetPlanReply,
		},
		{
			matches: func(m string) bool { return matchedCategory(m) != "" },
			respond: categoryAnalysisReply,
		},
		{
			matches: func(m string) bool { return containsAny(m, "hello", "hi", "hey") },
			respond: greetingReply,
		},
	}
}

func summaryReply(snap Snapshot, _ string) string {
	var b strings.Builder
	b.WriteString("Here's your spending summary:\n\n")
	fmt.Fprintf(&b, "Total spent: %s\n", snap.TotalSpent)
	fmt.Fprintf(&b, "Budget: %s\n", snap.Budget)
	fmt.Fprintf(&b, "Remaining: %s\n", snap.Savings())

	if len(snap.CategoryTotals) > 0 {
		top := make([]core.CategoryAmount, len(snap.CategoryTotals))
		copy(top, snap.CategoryTotals)
		sort.SliceStable(top, func(i, j int) bool {
			return top[i].Amount.Cents > top[j].Amount.Cents
		})
		if len(top) > 3 {
			top = top[:3]
		}

		b.WriteString("\nTop categories:\n")
		for _, t := range top {
			fmt.Fprintf(&b, "- %s: %s\n", t.Category, t.Amount)
		}
	}

	return b.String()
}

func savingTipsReply(snap Snapshot, _ string) string {
	var b strings.Builder
	b.WriteString("Here are personalized money-saving tips:\n\n")

	// Category tips fire only when the category is a meaningful share of
	// the budget, same thresholds the summary dashboard uses.
	food := snap.categorySpend("Food")
	if snap.percentOfBudget(food) > 15 {
		fmt.Fprintf(&b, "Food (%s):\n", food)
		b.WriteString("- Cook at home more often\n")
		b.WriteString("- Pack lunch instead of buying\n")
		fmt.Fprintf(&b, "- Potential savings: %s/month\n\n", fraction(food, 0.30))
	}

	travel := snap.categorySpend("Travel")
	if snap.percentOfBudget(travel) > 10 {
		fmt.Fprintf(&b, "Travel (%s):\n", travel)
		b.WriteString("- Use public transport\n")
		b.WriteString("- Consider carpooling\n")
		fmt.Fprintf(&b, "- Potential savings: %s/month\n\n", fraction(travel, 0.25))
	}

	b.WriteString("General tips:\n")
	b.WriteString("- Track every expense\n")
	b.WriteString("- Set category limits\n")
	b.WriteString("- Review spending weekly\n")

	return b.String()
}

func budgetPlanReply(snap Snapshot, _ string) string {
	var b strings.Builder
	b.WriteString("Budget planning advice:\n\nRecommended allocation:\n")
	for _, alloc := range []struct {
		name  string
		share float64
	}{
		{"Food", 0.30},
		{"Rent", 0.25},
		{"Education", 0.20},
		{"Transportation", 0.10},
		{"Entertainment", 0.10},
		{"Emergency fund", 0.05},
	} {
		fmt.Fprintf(&b, "- %s: %.0f%% (%s)\n", alloc.name, alloc.share*100, fraction(snap.Budget, alloc.share))
	}
	return b.String()
}

// analysisCategories are the category keywords the advisor understands,
// matched lowercase against the message.
var analysisCategories = []string{"food", "travel", "shopping", "entertainment", "education"}

func matchedCategory(message string) string {
	for _, cat := range analysisCategories {
		if strings.Contains(message, cat) {
			return cat
		}
	}
	return ""
}

func categoryAnalysisReply(snap Snapshot, message string) string {
	cat := matchedCategory(message)
	title := strings.ToUpper(cat[:1]) + cat[1:]
	spend := snap.categorySpend(title)
	percent := snap.percentOfBudget(spend)

	verdict := "You're doing well in this category!"
	if percent > 25 {
		verdict = "This seems high! Try to reduce it by 15-20%."
	}

	return fmt.Sprintf("%s spending analysis:\n\nTotal: %s\n%.1f%% of your budget\n\n%s",
		title, spend, percent, verdict)
}

func greetingReply(snap Snapshot, _ string) string {
	return fmt.Sprintf("Hello! You have %s remaining of your %s budget. Ask me about your spending, saving tips, or budget planning.",
		snap.Savings(), snap.Budget)
}

func fallbackReply(snap Snapshot) string {
	return fmt.Sprintf("I can help with your budget. So far you have spent %s of your %s budget. Try asking for a spending summary, saving tips, or a budget plan.",
		snap.TotalSpent, snap.Budget)
}

func fraction(m core.Money, share float64) core.Money {
	return core.Money{Cents: int64(float64(m.Cents) * share)}
}
