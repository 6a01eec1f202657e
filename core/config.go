package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug    bool
		TestMode bool
		Env      string // DEV (local; default), TEST, QA, PROD
		Build    string
		AppName  string
		WorkDir  string

		// TeacherAccounts is the allowlist of privileged identities.
		// Any username not in this list resolves to the student role.
		TeacherAccounts []string

		Server   ServerConfig
		Database DatabaseConfig
		Jupyter  JupyterConfig
		Mail     MailConfig

		RollbarToken string
	}

	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	// JupyterConfig locates the shared notebook environment. One token for
	// everyone: all students land in the same backing JupyterLab instance.
	JupyterConfig struct {
		Scheme string
		Host   string
		Port   string
		Token  string
	}

	MailConfig struct {
		DefaultFromEmail string
		// AccountDomain is appended to student ids to form their mail address.
		AccountDomain  string
		SendgridApiKey string
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.Mail.DefaultFromEmail}
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Mazoezi")
	conf.SetDefault("build", "dev")
	conf.SetDefault("serverHost", "0.0.0.0:8000")
	conf.SetDefault("serverDebugHost", "0.0.0.0:6060")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("teacherAccounts", []string{
		"teacher_001", "teacher_002", "teacher_003", "teacher_004", "teacher_005",
	})
	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseName", "mazoezi")
	conf.SetDefault("databaseDisableTLS", true)
	conf.SetDefault("jupyterScheme", "http")
	conf.SetDefault("jupyterHost", "localhost")
	conf.SetDefault("jupyterPort", "8888")
	conf.SetDefault("jupyterToken", "training2024")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("mailAccountDomain", "campus.localhost")

	env := os.Getenv("ENV")
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:           conf.GetBool("debug"),
		TestMode:        env == "TEST",
		Env:             env,
		Build:           conf.GetString("build"),
		AppName:         conf.GetString("appName"),
		WorkDir:         wd,
		TeacherAccounts: conf.GetStringSlice("teacherAccounts"),
		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			DebugHost:       conf.GetString("serverDebugHost"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Jupyter: JupyterConfig{
			Scheme: conf.GetString("jupyterScheme"),
			Host:   conf.GetString("jupyterHost"),
			Port:   conf.GetString("jupyterPort"),
			Token:  conf.GetString("jupyterToken"),
		},
		Mail: MailConfig{
			DefaultFromEmail: conf.GetString("defaultFromEmail"),
			AccountDomain:    conf.GetString("mailAccountDomain"),
			SendgridApiKey:   conf.GetString("sendgridApiKey"),
		},
		RollbarToken: conf.GetString("rollbarToken"),
	}
}

func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd: %v", err)
	}
	return wd
}
