package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"coinsage/config"
	"coinsage/internal/display"
	"coinsage/internal/graph"
	"coinsage/internal/models"
)

// runInteractive walks the user through one analysis via prompts.
func runInteractive(cfg *config.Config) error {
	display.Banner()

	coin, err := promptForCoin()
	if err != nil {
		return err
	}
	date, err := promptForDate()
	if err != nil {
		return err
	}
	profile, err := promptForProfile()
	if err != nil {
		return err
	}
	horizon, err := promptForHorizon()
	if err != nil {
		return err
	}

	return runAnalysis(context.Background(), cfg, graph.Request{
		Coin:          coin,
		TradeDate:     date,
		TraderProfile: profile,
		Horizon:       horizon,
	}, true)
}

func promptForCoin() (string, error) {
	var coin string
	prompt := &survey.Input{
		Message: "Enter the cryptocurrency (e.g., bitcoin, ethereum, BTC):",
		Help:    "Common names and tickers are both accepted",
	}

	err := survey.AskOne(prompt, &coin, survey.WithValidator(func(val interface{}) error {
		if strings.TrimSpace(val.(string)) == "" {
			return fmt.Errorf("coin cannot be empty")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(coin)), nil
}

func promptForDate() (string, error) {
	var dateStr string
	prompt := &survey.Input{
		Message: "Enter the analysis date (YYYY-MM-DD) or press Enter for today:",
		Default: time.Now().Format("2006-01-02"),
	}

	err := survey.AskOne(prompt, &dateStr, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if str == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", str); err != nil {
			return fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(dateStr), nil
}

func promptForProfile() (models.TraderProfile, error) {
	options := []string{
		"New buyer — considering a first position",
		"Existing holder — already holding this coin",
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select your trader profile:",
		Options: options,
		Default: options[0],
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	if selected == options[1] {
		return models.TraderExistingHolder, nil
	}
	return models.TraderNewBuyer, nil
}

func promptForHorizon() (models.Horizon, error) {
	options := []string{
		"Short term (days to weeks)",
		"Medium term (weeks to months)",
		"Long term (months to years)",
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select your investment horizon:",
		Options: options,
		Default: options[1],
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	switch selected {
	case options[0]:
		return models.HorizonShortTerm, nil
	case options[2]:
		return models.HorizonLongTerm, nil
	default:
		return models.HorizonMediumTerm, nil
	}
}
