// Package setup provides the terminal configuration wizard.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"riesgopais/config"
	"riesgopais/internal/domain"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// RunTUI launches the terminal configuration wizard and writes the result
// to config.gen.yaml.
func RunTUI() error {
	var (
		symbol         string
		preference     string
		manualPriceStr string
		customURL      string
		intervalStr    string
		thresholdStr   string
		listenAddr     string
		confirm        bool
	)

	// defaults
	symbol = config.DefaultSymbol
	intervalStr = "60s"
	thresholdStr = "2500"
	listenAddr = config.DefaultListenAddr

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("RIESGO PAÍS CONFIG WIZARD"))
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Country-risk monitor for Argentine USD bonds.\n"))

	fmt.Println(stepStyle.Render("STEP 1: BOND"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bond Ticker").
				Description("USD-denominated Argentine bond (e.g. AL30D.BA)").
				Value(&symbol).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("ticker cannot be empty")
					}
					return nil
				}),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("RIESGO PAÍS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 2: PRICE SOURCE"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Preferred Price Source").
				Description("Failing sources fall back to the remaining providers").
				Options(
					huh.NewOption("Automatic (API, then Rava, then IOL)", string(domain.PreferenceAuto)),
					huh.NewOption("Bonds API first", string(domain.PreferenceAPI)),
					huh.NewOption("Rava Bursátil first", string(domain.PreferenceRava)),
					huh.NewOption("InvertirOnline first", string(domain.PreferenceIOL)),
					huh.NewOption("Manual price (no fetching)", string(domain.PreferenceManual)),
					huh.NewOption("Custom URL", string(domain.PreferenceCustom)),
				).
				Value(&preference),
		),
	).Run()
	if err != nil {
		return err
	}

	if preference == string(domain.PreferenceManual) {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Manual Price (USD)").
					Description("Fixed bond price, e.g. 34.20").
					Value(&manualPriceStr).
					Validate(validatePrice),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	if preference == string(domain.PreferenceCustom) {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Custom URL").
					Description("Page scanned for the first price-shaped number").
					Value(&customURL).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("url cannot be empty")
						}
						return nil
					}),
			),
		).Run()
		if err != nil {
			return err
		}
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("RIESGO PAÍS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("STEP 3: DASHBOARD"))
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Update Interval").
				Description("Duration between refreshes, 30s to 10m").
				Value(&intervalStr).
				Validate(func(s string) error {
					_, err := time.ParseDuration(s)
					return err
				}),
			huh.NewInput().
				Title("Alert Threshold (bp)").
				Description("Log a warning above this spread").
				Value(&thresholdStr).
				Validate(validatePrice),
			huh.NewInput().
				Title("Listen Address").
				Value(&listenAddr),
		),
	).Run()
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("RIESGO PAÍS CONFIG WIZARD"))
	fmt.Println(stepStyle.Render("FINAL CONFIRMATION"))

	summary := fmt.Sprintf(
		"Bond: %s\nSource: %s\nInterval: %s\nAlert: %s pb\nDashboard: %s\n",
		symbol, preference, intervalStr, thresholdStr, listenAddr,
	)
	fmt.Println(lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1).Render(summary))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save Configuration?").
				Affirmative("Yes, save").
				Negative("No, exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("setup cancelled by user")
	}

	threshold, _ := decimal.NewFromString(thresholdStr)

	fc := config.FileConfig{
		Symbol:            symbol,
		Preference:        preference,
		ManualPrice:       manualPriceStr,
		CustomURL:         customURL,
		UpdateInterval:    intervalStr,
		AlertThresholdBps: threshold.InexactFloat64(),
		ListenAddr:        listenAddr,
	}

	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to generate yaml: %w", err)
	}

	filename := "config.gen.yaml"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(
		fmt.Sprintf("\n✓ Configuration saved to %s\nRun with --config %s", filename, filename)))
	return nil
}

func validatePrice(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be positive")
	}
	return nil
}
