package vision

import (
	"fmt"
	"strings"

	"storebot/internal/domain"
)

// BuildPrompt assembles the per-photo instruction block. baselineHours
// is the store's hours of record, passed through verbatim so the model
// can call out differences. When holidayWindow is set the holiday
// extraction block is appended for the given names.
func BuildPrompt(baselineHours string, holidayWindow bool, holidays []domain.Holiday) string {
	var b strings.Builder

	b.WriteString(`You are reviewing a photo taken inside or outside a retail store.
Describe any signage relevant to the store's operating status: posted hours,
closure notices, relocation notices, or payment-system notices. Quote sign
text exactly where you can read it.

If posted operating hours are visible, list them one day per line as:
Monday: 08:00 - 22:00
Use 24-hour times. Times between 1 and 11 with no AM/PM marker are opening
times in the morning and closing times in the evening (a closing "9" means
21:00, not 09:00). Only list days you can actually read from the sign. If no
hours are visible, say so plainly and do not invent any.

`)
	if strings.TrimSpace(baselineHours) != "" {
		fmt.Fprintf(&b, "Hours of record for this store:\n%s\n\n", strings.TrimSpace(baselineHours))
	}

	if holidayWindow && len(holidays) > 0 {
		names := make([]string, 0, len(holidays))
		for _, h := range holidays {
			names = append(names, h.Name)
		}
		fmt.Fprintf(&b, `Also look for holiday hours covering: %s.
For each holiday mentioned on signage, output one line as "Holiday: value"
where value is either CLOSED, a time range like 9:00 AM - 5:00 PM, or a
single closing time. If no holiday hours are visible, output exactly:
NO HOLIDAY HOURS VISIBLE

`, strings.Join(names, ", "))
	}

	b.WriteString(`If you cannot determine the store's status, say you are unsure.
End your reply with a line of the form "Clarity score: X" where X is between
0.00 and 1.00 and reflects how clearly the relevant signage is readable.`)

	return b.String()
}
