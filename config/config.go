package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/warp/holiday-pay/factory"
	"github.com/warp/holiday-pay/payroll"
)

type Config struct {
	App   AppConfig
	CORS  CORSConfig
	Rules RulesConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RulesConfig selects the payroll rule set. Preset is applied first, then
// File, then the individual overrides.
type RulesConfig struct {
	Preset string
	File   string

	HolidayMultiplier string
	ApprovalThreshold string
	Deduction         string
	Formula           string
	Timezone          string
	LenientTimestamps string
}

// Load reads the environment, after loading the given .env files (or
// ./.env when none are named). A missing .env file is not an error;
// variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "dev"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	config.Rules = RulesConfig{
		Preset:            getEnv("RULES_PRESET", "standard"),
		File:              getEnv("RULES_FILE", ""),
		HolidayMultiplier: getEnv("HOLIDAY_MULTIPLIER", ""),
		ApprovalThreshold: getEnv("APPROVAL_THRESHOLD", ""),
		Deduction:         getEnv("HOLIDAY_DEDUCTION", ""),
		Formula:           getEnv("TOTAL_PAY_FORMULA", ""),
		Timezone:          getEnv("PAYROLL_TIMEZONE", ""),
		LenientTimestamps: getEnv("LENIENT_TIMESTAMPS", ""),
	}

	return config, nil
}

// PayrollRules builds the rule set described by rc.
func (rc RulesConfig) PayrollRules() (payroll.Rules, error) {
	rules := payroll.DefaultRules()

	if rc.Preset != "" {
		doc, err := factory.PresetJSON(rc.Preset)
		if err != nil {
			return payroll.Rules{}, fmt.Errorf("invalid RULES_PRESET: %w", err)
		}
		if rules, err = factory.NewRulesFactory(rules).ParseRules(doc); err != nil {
			return payroll.Rules{}, err
		}
	}

	if rc.File != "" {
		data, err := os.ReadFile(rc.File)
		if err != nil {
			return payroll.Rules{}, fmt.Errorf("failed to read RULES_FILE: %w", err)
		}
		if rules, err = factory.NewRulesFactory(rules).ParseRules(string(data)); err != nil {
			return payroll.Rules{}, fmt.Errorf("RULES_FILE %s: %w", rc.File, err)
		}
	}

	overrides, err := rc.overrides()
	if err != nil {
		return payroll.Rules{}, err
	}
	return factory.NewRulesFactory(rules).FromJSON(overrides)
}

func (rc RulesConfig) overrides() (factory.RulesJSON, error) {
	rj := factory.RulesJSON{
		Deduction: rc.Deduction,
		Formula:   rc.Formula,
		Timezone:  rc.Timezone,
	}

	if rc.HolidayMultiplier != "" {
		d, err := decimal.NewFromString(rc.HolidayMultiplier)
		if err != nil {
			return rj, fmt.Errorf("invalid HOLIDAY_MULTIPLIER: %w", err)
		}
		rj.HolidayMultiplier = &d
	}
	if rc.ApprovalThreshold != "" {
		d, err := decimal.NewFromString(rc.ApprovalThreshold)
		if err != nil {
			return rj, fmt.Errorf("invalid APPROVAL_THRESHOLD: %w", err)
		}
		rj.ApprovalThreshold = &d
	}
	if rc.LenientTimestamps != "" {
		b, err := strconv.ParseBool(rc.LenientTimestamps)
		if err != nil {
			return rj, fmt.Errorf("invalid LENIENT_TIMESTAMPS: %w", err)
		}
		rj.LenientTimestamps = &b
	}
	return rj, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
