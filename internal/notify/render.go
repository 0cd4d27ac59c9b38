package notify

import (
	"encoding/json"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/openfence/fence-quote-api/internal/leads"
)

// Rendering is pure: four functions of a normalized submission, one per
// audience and format. Every interpolated field is escaped for the
// target format, since name, address, and page URL are attacker
// controlled and end up in operator mailboxes.

// OwnerSubject builds the subject line for the owner notification.
func OwnerSubject(s leads.Submission) string {
	return fmt.Sprintf("New Fence Lead – %s ft – %s-%s",
		formatFeet(s.TotalLinearFeet), formatUSD(s.EstimatedMin), formatUSD(s.EstimatedMax))
}

// CustomerSubject builds the subject line for the customer confirmation.
func CustomerSubject() string {
	return "We received your fence quote request"
}

// OwnerHTML renders the owner-facing notification body.
func OwnerHTML(s leads.Submission) string {
	estRange := fmt.Sprintf("%s - %s", formatUSD(s.EstimatedMin), formatUSD(s.EstimatedMax))
	gates := fmt.Sprintf("%d walk, %d double", s.WalkGatesQty, s.DoubleGatesQty)

	segmentsBlock := ""
	if len(s.Segments) > 0 {
		if dump, err := json.Marshal(s.Segments); err == nil {
			segmentsBlock = fmt.Sprintf(
				`<p><strong>Segments Data:</strong></p><pre style="white-space:pre-wrap;font-size:12px;background:#f5f8fa;border:1px solid #d6e3ea;border-radius:8px;padding:10px;">%s</pre>`,
				html.EscapeString(string(dump)))
		}
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,Helvetica,sans-serif;color:#102531;line-height:1.45;">`)
	b.WriteString(`<h2 style="margin:0 0 12px;">New Fence Lead</h2>`)
	writeHTMLRow(&b, "Customer", s.FullName)
	writeHTMLRow(&b, "Phone", s.Phone)
	writeHTMLRow(&b, "Email", s.Email)
	writeHTMLRow(&b, "Address", s.Address)
	b.WriteString(`<hr style="border:none;border-top:1px solid #dbe7ee;margin:14px 0;" />`)
	writeHTMLRow(&b, "Company", companyLabel(s))
	writeHTMLRow(&b, "Fence type", fenceTypeLabel(s))
	writeHTMLRow(&b, "Gates", gates)
	writeHTMLRow(&b, "Remove old fence", yesNo(s.RemoveOldFence))
	writeHTMLRow(&b, "Total linear feet", formatFeet(s.TotalLinearFeet)+" ft")
	writeHTMLRow(&b, "Segments count", strconv.Itoa(s.SegmentsCount))
	writeHTMLRow(&b, "Estimated range", estRange)
	b.WriteString(segmentsBlock)
	fmt.Fprintf(&b, `<p style="font-size:12px;color:#5f7480;margin-top:14px;">Submitted at: %s</p>`, html.EscapeString(s.CreatedAt))
	fmt.Fprintf(&b, `<p style="font-size:12px;color:#5f7480;">Page: %s</p>`, html.EscapeString(s.PageURL))
	b.WriteString(`</div>`)
	return b.String()
}

// OwnerText renders the plain-text owner notification body.
func OwnerText(s leads.Submission) string {
	lines := []string{
		"New Fence Lead",
		"",
		"Customer: " + s.FullName,
		"Phone: " + s.Phone,
		"Email: " + s.Email,
		"Address: " + s.Address,
		"",
		"Company: " + companyLabel(s),
		"Fence type: " + fenceTypeLabel(s),
		fmt.Sprintf("Walk gates: %d", s.WalkGatesQty),
		fmt.Sprintf("Double gates: %d", s.DoubleGatesQty),
		"Remove old fence: " + yesNo(s.RemoveOldFence),
		fmt.Sprintf("Total feet: %s ft", formatFeet(s.TotalLinearFeet)),
		fmt.Sprintf("Segments: %d", s.SegmentsCount),
		fmt.Sprintf("Estimated range: %s - %s", formatUSD(s.EstimatedMin), formatUSD(s.EstimatedMax)),
		"",
		"Submitted at: " + s.CreatedAt,
		"Page: " + s.PageURL,
	}
	return strings.Join(lines, "\n")
}

// CustomerHTML renders the customer-facing confirmation body.
func CustomerHTML(s leads.Submission) string {
	estRange := fmt.Sprintf("%s - %s", formatUSD(s.EstimatedMin), formatUSD(s.EstimatedMax))

	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,Helvetica,sans-serif;color:#102531;line-height:1.45;">`)
	b.WriteString(`<h2 style="margin:0 0 10px;">We received your fence quote request</h2>`)
	fmt.Fprintf(&b, `<p>Hi %s,</p>`, html.EscapeString(s.FullName))
	b.WriteString(`<p>Thanks for your request. Here is a summary of your estimate:</p>`)
	writeHTMLRow(&b, "Address", s.Address)
	writeHTMLRow(&b, "Fence type", fenceTypeLabel(s))
	writeHTMLRow(&b, "Total linear feet", formatFeet(s.TotalLinearFeet)+" ft")
	writeHTMLRow(&b, "Estimated range", estRange)
	b.WriteString(`<p style="margin-top:14px;color:#4f6570;">This is an estimate range. Final pricing will be confirmed by the owner.</p>`)
	b.WriteString(`</div>`)
	return b.String()
}

// CustomerText renders the plain-text confirmation body.
func CustomerText(s leads.Submission) string {
	return strings.Join([]string{
		"We received your fence quote request",
		"",
		"Address: " + s.Address,
		"Fence type: " + fenceTypeLabel(s),
		fmt.Sprintf("Total linear feet: %s ft", formatFeet(s.TotalLinearFeet)),
		fmt.Sprintf("Estimated range: %s - %s", formatUSD(s.EstimatedMin), formatUSD(s.EstimatedMax)),
		"",
		"This is an estimate range. Final pricing will be confirmed by the owner.",
	}, "\n")
}

func writeHTMLRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, `<p><strong>%s:</strong> %s</p>`, label, html.EscapeString(value))
}

func companyLabel(s leads.Submission) string {
	if s.CompanyName != "" {
		return s.CompanyName
	}
	if s.Client != "" {
		return s.Client
	}
	return "Fence Widget"
}

func fenceTypeLabel(s leads.Submission) string {
	if s.FenceType == "" {
		return "N/A"
	}
	return s.FenceType
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatFeet(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// formatUSD renders whole dollars with comma grouping, e.g. $3,000.
func formatUSD(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		n = 0
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	b.WriteByte('$')
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
