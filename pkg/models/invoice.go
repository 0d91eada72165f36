package models

import "time"

// DateLayout is the wire format for all invoice dates.
const DateLayout = "2006-01-02"

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusPartial InvoiceStatus = "partial"
)

// Invoice is a read-only view of an invoice as supplied by the billing
// system. Dates stay strings until evaluation so a malformed value in one
// invoice never blocks loading the rest.
type Invoice struct {
	ID              string        `json:"id"`
	InvoiceNumber   string        `json:"invoice_number"`
	ClientName      string        `json:"client_name"`
	ClientEmail     string        `json:"client_email,omitempty"`
	ClientPhone     string        `json:"client_phone,omitempty"`
	Amount          float64       `json:"amount"`
	IssueDate       string        `json:"issue_date,omitempty"`
	DueDate         string        `json:"due_date"`
	Status          InvoiceStatus `json:"status"`
	RemindersSent   int           `json:"reminders_sent,omitempty"`
	LastContactDate string        `json:"last_contact_date,omitempty"`
	Description     string        `json:"description,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

// DueDateTime parses the due date. Callers decide how to handle a malformed
// value; the model itself never rejects one.
func (i *Invoice) DueDateTime() (time.Time, error) {
	return time.Parse(DateLayout, i.DueDate)
}
