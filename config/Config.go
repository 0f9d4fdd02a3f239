package config

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Scheduler SchedulerConfig
	Graph     GraphConfig
	Logging   LoggingConfig
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	Name     string `validate:"required"`
	Username string `validate:"required"`
	Password string `validate:"required" sensitive:"true"`
}

type ServerConfig struct {
	ListenAddress  string `validate:"required"`
	AllowedOrigins []string
}

type SchedulerConfig struct {
	Enabled bool
	// Cron spec for the periodic tick, e.g. "@every 5m".
	TickSchedule     string `validate:"required"`
	ReminderDays     []int  `validate:"omitempty,dive,gte=1,lte=60"`
	LockLeaseSeconds int    `validate:"gte=0"`
	InstanceId       string
}

type GraphConfig struct {
	BaseUrl        string `validate:"required,url"`
	AccessToken    string `sensitive:"true"`
	TimeoutSeconds int    `validate:"gte=1,lte=300"`
}

type LoggingConfig struct {
	Level string
	Dir   string
}
