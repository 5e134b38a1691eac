package domain

const SettingsID = "global"

type Settings struct {
	AppName        string `json:"appName"`
	LogoURL        string `json:"logoUrl"`
	SupportMessage string `json:"supportMessage"`
}

func DefaultSettings() *Settings {
	return &Settings{
		AppName:        "The HUB | Nova Maldives",
		LogoURL:        "",
		SupportMessage: "Contact IT for support.",
	}
}
