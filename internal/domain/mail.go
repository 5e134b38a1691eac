package domain

const (
	MailTypeCreateUser     = "create_user"
	MailTypeResetPassword  = "reset_password"
	MailTypeShiftSubmitted = "shift_submitted"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ShiftSubmittedMailData struct {
	ManagerName    string `json:"managerName"`
	AgentName      string `json:"agentName"`
	Date           string `json:"date"`
	ShiftType      string `json:"shiftType"`
	CompletedTasks int    `json:"completedTasks"`
	TotalTasks     int    `json:"totalTasks"`
	Notes          string `json:"notes"`
}
