package email

// Config holds email service configuration. The Postmark tokens are only
// needed when EMAIL_DRIVER is postmark.
type Config struct {
	Driver               string `env:"EMAIL_DRIVER" envDefault:"dev"`
	DevOutputDir         string `env:"EMAIL_DEV_DIR" envDefault:".mail"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
	AppName              string `env:"APP_NAME" envDefault:"TaskMaster"`
	AppURL               string `env:"APP_URL" envDefault:"http://localhost:3000"`
}
