package notify

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"guestdesk-system/config"
	"guestdesk-system/internal/database/models"
	"guestdesk-system/internal/employee"
)

var ErrEmployeeNotFound = errors.New("employee not found or inactive")

const (
	TypeEmail = "email"
	TypeSMS   = "sms"
	TypeSlack = "slack"
	TypeBoth  = "both"
)

// Request is one visitor-arrival notification.
type Request struct {
	Type       string  `json:"type"`
	EmployeeID int64   `json:"employeeId"`
	GuestName  string  `json:"guestName"`
	GuestPhone *string `json:"guestPhone,omitempty"`
	GuestEmail *string `json:"guestEmail,omitempty"`
	Purpose    string  `json:"purpose"`
	Message    string  `json:"message,omitempty"`
}

type ChannelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Result struct {
	Email ChannelResult  `json:"email"`
	SMS   ChannelResult  `json:"sms"`
	Slack *ChannelResult `json:"slack,omitempty"`
}

// Outcome is the per-employee dispatch report. Success is true when any
// attempted channel went through.
type Outcome struct {
	EmployeeID   int64   `json:"employeeId"`
	EmployeeName string  `json:"employeeName"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Results      Result  `json:"results"`
	Success      bool    `json:"-"`
}

type BulkOutcome struct {
	TotalEmployees   int       `json:"totalEmployees"`
	SuccessfulEmails int       `json:"successfulEmails"`
	SuccessfulSMS    int       `json:"successfulSMS"`
	Results          []Outcome `json:"results"`
}

// EmailSender delivers visitor notifications over SMTP.
type EmailSender interface {
	SendVisitorNotification(ctx context.Context, to string, req Request) error
	SendTest(ctx context.Context, to string) error
}

// SMSSender mirrors EmailSender for the SMS channel.
type SMSSender interface {
	SendVisitorNotification(ctx context.Context, to string, req Request) error
	SendTest(ctx context.Context, to string) error
}

// SlackNotifier covers the Slack Web API calls the dispatcher needs.
type SlackNotifier interface {
	LookupUserByEmail(ctx context.Context, email string) (string, error)
	SendDM(ctx context.Context, userID, text string) error
	SendChannel(ctx context.Context, channel, text string) error
}

// Dispatcher routes a guest arrival to the configured channels. Any sender
// may be nil, in which case its channel reports a configuration failure
// instead of erroring the request.
type Dispatcher struct {
	employees *employee.Repository
	email     EmailSender
	sms       SMSSender
	slack     SlackNotifier
	settings  config.NotifyConfig
	channel   string
}

func NewDispatcher(employees *employee.Repository, email EmailSender, sms SMSSender, slack SlackNotifier, settings config.NotifyConfig, defaultChannel string) *Dispatcher {
	if settings.Timeout <= 0 {
		settings.Timeout = 5 * time.Second
	}
	return &Dispatcher{
		employees: employees,
		email:     email,
		sms:       sms,
		slack:     slack,
		settings:  settings,
		channel:   defaultChannel,
	}
}

// Send notifies a single employee. ErrEmployeeNotFound is the only error;
// channel failures are reported inside the outcome.
func (d *Dispatcher) Send(ctx context.Context, req Request) (*Outcome, error) {
	emp, err := d.employees.GetByID(req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	if !emp.IsActive {
		return nil, ErrEmployeeNotFound
	}

	outcome := d.sendToEmployee(ctx, emp, req)
	return &outcome, nil
}

// SendBulk repeats the single-notify logic for each resolvable target.
func (d *Dispatcher) SendBulk(ctx context.Context, employeeIDs []int64, req Request) (*BulkOutcome, error) {
	targets, err := d.employees.ActiveByIDs(employeeIDs)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, ErrEmployeeNotFound
	}

	bulk := BulkOutcome{TotalEmployees: len(targets)}
	for i := range targets {
		outcome := d.sendToEmployee(ctx, &targets[i], req)
		if outcome.Results.Email.Success {
			bulk.SuccessfulEmails++
		}
		if outcome.Results.SMS.Success {
			bulk.SuccessfulSMS++
		}
		bulk.Results = append(bulk.Results, outcome)
	}
	return &bulk, nil
}

func (d *Dispatcher) sendToEmployee(ctx context.Context, emp *models.Employee, req Request) Outcome {
	outcome := Outcome{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Phone:        emp.Phone,
	}
	if emp.Email != "" {
		outcome.Email = &emp.Email
	}

	if !d.settings.Enabled {
		disabled := ChannelResult{Success: false, Message: "Notifications are disabled"}
		outcome.Results.Email = disabled
		outcome.Results.SMS = disabled
		if req.Type == TypeSlack {
			outcome.Results.Slack = &disabled
		}
		return outcome
	}

	if req.Type == TypeEmail || req.Type == TypeBoth {
		outcome.Results.Email = d.sendEmail(ctx, emp, req)
	}
	if req.Type == TypeSMS || req.Type == TypeBoth {
		outcome.Results.SMS = d.sendSMS(ctx, emp, req)
	}
	if req.Type == TypeSlack {
		result := d.sendSlack(ctx, emp, req)
		outcome.Results.Slack = &result
	}

	switch req.Type {
	case TypeEmail:
		outcome.Success = outcome.Results.Email.Success
	case TypeSMS:
		outcome.Success = outcome.Results.SMS.Success
	case TypeSlack:
		outcome.Success = outcome.Results.Slack.Success
	case TypeBoth:
		outcome.Success = outcome.Results.Email.Success || outcome.Results.SMS.Success
	}
	return outcome
}

func (d *Dispatcher) sendEmail(ctx context.Context, emp *models.Employee, req Request) ChannelResult {
	if emp.Email == "" {
		return ChannelResult{Success: false, Message: "Employee email not available"}
	}
	if d.email == nil {
		return ChannelResult{Success: false, Message: "Email service not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, d.settings.Timeout)
	defer cancel()

	if err := d.email.SendVisitorNotification(ctx, emp.Email, req); err != nil {
		log.Printf("Error sending email notification to %s: %v", emp.Email, err)
		return ChannelResult{Success: false, Message: "Failed to send email"}
	}
	return ChannelResult{Success: true, Message: "Email sent successfully"}
}

func (d *Dispatcher) sendSMS(ctx context.Context, emp *models.Employee, req Request) ChannelResult {
	if emp.Phone == nil || *emp.Phone == "" {
		return ChannelResult{Success: false, Message: "Employee phone number not available"}
	}
	if d.sms == nil {
		return ChannelResult{Success: false, Message: "SMS service not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, d.settings.Timeout)
	defer cancel()

	if err := d.sms.SendVisitorNotification(ctx, *emp.Phone, req); err != nil {
		log.Printf("Error sending SMS notification to %s: %v", *emp.Phone, err)
		return ChannelResult{Success: false, Message: "Failed to send SMS"}
	}
	return ChannelResult{Success: true, Message: "SMS sent successfully"}
}

// sendSlack prefers a direct message. The employee's Slack user id is
// resolved from their email on first use and cached on the record; without
// one the message falls back to the default channel broadcast.
func (d *Dispatcher) sendSlack(ctx context.Context, emp *models.Employee, req Request) ChannelResult {
	if d.slack == nil {
		return ChannelResult{Success: false, Message: "Slack service not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, d.settings.Timeout)
	defer cancel()

	text := d.BuildMessage(req)

	userID := ""
	if emp.SlackUserID != nil {
		userID = *emp.SlackUserID
	}
	if userID == "" && emp.Email != "" {
		resolved, err := d.slack.LookupUserByEmail(ctx, emp.Email)
		if err != nil {
			log.Printf("Slack user lookup failed for %s: %v", emp.Email, err)
		} else if resolved != "" {
			userID = resolved
			if err := d.employees.SetSlackUserID(emp.ID, resolved); err != nil {
				log.Printf("Error caching Slack user id for employee %d: %v", emp.ID, err)
			}
			emp.SlackUserID = &resolved
		}
	}

	if userID != "" {
		if err := d.slack.SendDM(ctx, userID, text); err != nil {
			log.Printf("Error sending Slack DM to %s: %v", userID, err)
			return ChannelResult{Success: false, Message: "Failed to send Slack message"}
		}
		return ChannelResult{Success: true, Message: "Slack DM sent successfully"}
	}

	if err := d.slack.SendChannel(ctx, d.channel, text); err != nil {
		log.Printf("Error posting to Slack channel %s: %v", d.channel, err)
		return ChannelResult{Success: false, Message: "Failed to send Slack message"}
	}
	return ChannelResult{Success: true, Message: "Posted to default Slack channel"}
}

// BuildMessage renders the notification text, honoring a custom template
// when one is configured.
func (d *Dispatcher) BuildMessage(req Request) string {
	if d.settings.Template != "" {
		replacer := strings.NewReplacer(
			"{guest_name}", req.GuestName,
			"{purpose}", req.Purpose,
		)
		return replacer.Replace(d.settings.Template)
	}

	var b strings.Builder
	b.WriteString("New visitor: ")
	b.WriteString(req.GuestName)
	b.WriteString(" is here to see you. Purpose: ")
	b.WriteString(req.Purpose)
	if req.Message != "" {
		b.WriteString(". Message: ")
		b.WriteString(req.Message)
	}
	return b.String()
}
