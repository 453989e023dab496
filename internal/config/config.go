package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gte=1,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Study   StudyConfig   `mapstructure:"study"`
}

type StorageConfig struct {
	// Path is the SQLite file holding the persisted candidate state.
	Path string `mapstructure:"path" validate:"required"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// StudyConfig is the candidate's study profile. It parameterizes AI plan
// requests and the days-remaining computation; it is never persisted with
// the tracked progress.
type StudyConfig struct {
	StartDate     string `mapstructure:"start_date" validate:"omitempty,datetime=2006-01-02"`
	ExamDate      string `mapstructure:"exam_date" validate:"required,datetime=2006-01-02"`
	HoursPerWeek  int    `mapstructure:"hours_per_week" validate:"gte=1,lte=112"`
	HasBackground bool   `mapstructure:"has_background"`
}

// Settings resolves the study profile into concrete dates. An empty start
// date defaults to today.
func (c StudyConfig) Settings(now time.Time) (StudySettings, error) {
	examDate, err := time.ParseInLocation(time.DateOnly, c.ExamDate, now.Location())
	if err != nil {
		return StudySettings{}, fmt.Errorf("time.Parse(exam_date %q) > %w", c.ExamDate, err)
	}

	startDate := now
	if c.StartDate != "" {
		startDate, err = time.ParseInLocation(time.DateOnly, c.StartDate, now.Location())
		if err != nil {
			return StudySettings{}, fmt.Errorf("time.Parse(start_date %q) > %w", c.StartDate, err)
		}
	}

	return StudySettings{
		StartDate:     startDate,
		ExamDate:      examDate,
		HoursPerWeek:  c.HoursPerWeek,
		HasBackground: c.HasBackground,
	}, nil
}

// StudySettings is the resolved study profile for one process lifetime.
type StudySettings struct {
	StartDate     time.Time
	ExamDate      time.Time
	HoursPerWeek  int
	HasBackground bool
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/certprep")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("storage.path", "certprep.db")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("study.exam_date", "2026-11-17")
	v.SetDefault("study.hours_per_week", 15)
	v.SetDefault("study.has_background", false)

	// Bind OpenAI config to environment variables only (not from config file)
	if err := v.BindEnv("openai.api_key", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("openai.model", "OPENAI_MODEL"); err != nil {
		return nil, fmt.Errorf("failed to bind OPENAI_MODEL environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
