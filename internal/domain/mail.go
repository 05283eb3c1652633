package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ScheduleSubmittedMailData struct {
	Name       string `json:"name"`
	Month      string `json:"month"`
	ShiftCount int    `json:"shiftCount"`
}
