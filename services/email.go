package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"finance-api/models"
	"finance-api/utils"
)

// EmailService delivers notifications through the Resend REST API. It
// implements AlertDispatcher and ReportDispatcher; each send is retried
// with exponential backoff before it is reported as failed.
type EmailService struct {
	apiKey     string
	fromEmail  string
	httpClient *http.Client
}

func NewEmailService(apiKey, fromEmail string) *EmailService {
	return &EmailService{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SendBudgetAlert emails a budget usage warning. An error here means the
// alert was not delivered; the caller must not record it as sent.
func (s *EmailService) SendBudgetAlert(to, userName string, data BudgetAlertData) error {
	subject := fmt.Sprintf("Budget Alert for %s Account", data.AccountName)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <div style="background: #dc2626; color: #ffffff; padding: 24px; border-radius: 10px 10px 0 0;">
            <h1 style="margin: 0; font-size: 22px;">⚠️ Budget Alert</h1>
        </div>
        <div style="background: #ffffff; padding: 24px; border-radius: 0 0 10px 10px;">
            <p>Hello %s,</p>
            <p>You have used <strong>%.1f%%</strong> of your monthly budget.</p>
            <table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
                <tr><td style="padding: 8px 0; color: #6b7280;">Account</td><td style="text-align: right;"><strong>%s</strong></td></tr>
                <tr><td style="padding: 8px 0; color: #6b7280;">Budget</td><td style="text-align: right;"><strong>%s</strong></td></tr>
                <tr><td style="padding: 8px 0; color: #6b7280;">Spent so far</td><td style="text-align: right;"><strong>%s</strong></td></tr>
            </table>
        </div>
    </div>
</body>
</html>`, userName, data.PercentageUsed, data.AccountName,
		utils.FormatCents(data.BudgetAmount), utils.FormatCents(data.TotalExpenses))

	return withRetry(3, 500*time.Millisecond, func() error {
		return s.send(to, subject, htmlBody)
	})
}

// SendMonthlyReport emails last month's aggregated stats plus insights.
func (s *EmailService) SendMonthlyReport(to, userName string, month time.Time, stats models.MonthlyStats, insights []string) error {
	subject := fmt.Sprintf("Your Monthly Financial Report - %s", month.Format("January 2006"))

	var categoryRows strings.Builder
	for category, amount := range stats.ByCategory {
		fmt.Fprintf(&categoryRows,
			`<tr><td style="padding: 6px 0; color: #6b7280;">%s</td><td style="text-align: right;">%s</td></tr>`,
			category, utils.FormatCents(amount))
	}

	var insightItems strings.Builder
	for _, insight := range insights {
		fmt.Fprintf(&insightItems, "<li style=\"margin: 6px 0;\">%s</li>", insight)
	}

	net := stats.TotalIncome - stats.TotalExpenses

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="margin: 0; padding: 0; font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; background-color: #f3f4f6;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <div style="background: linear-gradient(135deg, #2563eb 0%%, #7c3aed 100%%); color: #ffffff; padding: 24px; border-radius: 10px 10px 0 0;">
            <h1 style="margin: 0; font-size: 22px;">📊 Monthly Report — %s</h1>
        </div>
        <div style="background: #ffffff; padding: 24px; border-radius: 0 0 10px 10px;">
            <p>Hello %s, here is your summary for %s.</p>
            <table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
                <tr><td style="padding: 8px 0; color: #6b7280;">Total income</td><td style="text-align: right;"><strong>%s</strong></td></tr>
                <tr><td style="padding: 8px 0; color: #6b7280;">Total expenses</td><td style="text-align: right;"><strong>%s</strong></td></tr>
                <tr><td style="padding: 8px 0; color: #6b7280;">Net</td><td style="text-align: right;"><strong>%s</strong></td></tr>
                <tr><td style="padding: 8px 0; color: #6b7280;">Transactions</td><td style="text-align: right;"><strong>%d</strong></td></tr>
            </table>
            <h3 style="margin: 16px 0 8px;">Expenses by category</h3>
            <table style="width: 100%%; border-collapse: collapse;">%s</table>
            <h3 style="margin: 16px 0 8px;">Insights</h3>
            <ul style="padding-left: 20px; color: #374151;">%s</ul>
        </div>
    </div>
</body>
</html>`, month.Format("January 2006"), userName, month.Format("January 2006"),
		utils.FormatCents(stats.TotalIncome), utils.FormatCents(stats.TotalExpenses),
		utils.FormatCents(net), stats.TransactionCount,
		categoryRows.String(), insightItems.String())

	return withRetry(3, 500*time.Millisecond, func() error {
		return s.send(to, subject, htmlBody)
	})
}

func (s *EmailService) send(to, subject, htmlBody string) error {
	if s.apiKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	payload := map[string]interface{}{
		"from":    fmt.Sprintf("Finance Tracker <%s>", s.fromEmail),
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send email: status %d", resp.StatusCode)
	}
	return nil
}
