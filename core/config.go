package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Pass policies decide when a student passes an exam overall.
const (
	PassPolicyAllSubjects = "all-subjects"
	PassPolicyPercentage  = "percentage"
)

// Repeated subject policies decide which exam's grade counts towards the CGPA when a subject
// is assessed in more than one exam of the same academic year.
const (
	RepeatPolicyLatest = "latest"
	RepeatPolicyBest   = "best"
)

type (
	ServerConfig struct {
		Host               string
		DebugHost          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
		DisableReqLogs     bool
	}

	DatabaseConfig struct {
		Engine        string // postgres | memory
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	GradingConfig struct {
		Precision      int // decimal places kept by percentages, averages and CGPA
		PassPolicy     string
		PassPercentage float64 // only used by PassPolicyPercentage
		RepeatPolicy   string
	}

	TranscriptConfig struct {
		NotifyEmails    []mail.Address
		RefreshSchedule string // cron spec; empty disables the draft refresh job
	}

	Config struct {
		AppName   string
		Env       string
		Build     string
		Debug     bool
		TestMode  bool
		SecretKey string
		WorkDir   string

		RollbarToken     string
		SendgridApiKey   string
		DefaultFromEmail mail.Address

		Server     ServerConfig
		Database   DatabaseConfig
		Grading    GradingConfig
		Transcript TranscriptConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DefaultGradingConfig is used whenever a component is built without explicit settings.
func DefaultGradingConfig() GradingConfig {
	return GradingConfig{
		Precision:      2,
		PassPolicy:     PassPolicyAllSubjects,
		PassPercentage: 40,
		RepeatPolicy:   RepeatPolicyLatest,
	}
}

// Check rejects settings the store cannot honor.
func (c GradingConfig) Check() error {
	if c.Precision < 0 || c.Precision > StoredDecimals {
		return errors.Errorf("grading precision must be between 0 and %d, got %d", StoredDecimals, c.Precision)
	}
	return nil
}

func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "College Results")
	v.SetDefault("secretKey", "x7#q1p!m2v$k9t@c4w*e8r^z6n&b3y(h5u)j0s_d+f=g-a")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "college_results")
	v.SetDefault("database.user", "results")
	v.SetDefault("database.password", "results")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	grading := DefaultGradingConfig()
	v.SetDefault("grading.precision", grading.Precision)
	v.SetDefault("grading.passPolicy", grading.PassPolicy)
	v.SetDefault("grading.passPercentage", grading.PassPercentage)
	v.SetDefault("grading.repeatPolicy", grading.RepeatPolicy)

	v.SetDefault("transcript.notifyEmails", "")
	v.SetDefault("transcript.refreshSchedule", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		RollbarToken:     v.GetString("rollbarToken"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		Server: ServerConfig{
			Host:               v.GetString("server.host"),
			DebugHost:          v.GetString("server.debugHost"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
			DisableReqLogs:     v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Grading: GradingConfig{
			Precision:      v.GetInt("grading.precision"),
			PassPolicy:     CleanString(v.GetString("grading.passPolicy"), true /* lower */),
			PassPercentage: v.GetFloat64("grading.passPercentage"),
			RepeatPolicy:   CleanString(v.GetString("grading.repeatPolicy"), true /* lower */),
		},
		Transcript: TranscriptConfig{
			NotifyEmails:    parseAddressList(v.GetString("transcript.notifyEmails")),
			RefreshSchedule: CleanString(v.GetString("transcript.refreshSchedule")),
		},
	}
	if err := conf.Grading.Check(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}

// parseAddressList parses a comma separated list of addresses, skipping invalid ones.
func parseAddressList(s string) []mail.Address {
	var addrs []mail.Address
	for _, part := range strings.Split(s, ",") {
		part = CleanString(part)
		if part == "" {
			continue
		}
		addr, err := mail.ParseAddress(part)
		if err != nil {
			log.Printf("config: skipping invalid address %q: %v", part, err)
			continue
		}
		addrs = append(addrs, *addr)
	}
	return addrs
}
