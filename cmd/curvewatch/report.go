package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/curvewatch/curvewatch/delivery"
	deliverygithub "github.com/curvewatch/curvewatch/delivery/github"
	deliveryslack "github.com/curvewatch/curvewatch/delivery/slack"
	deliverytelegram "github.com/curvewatch/curvewatch/delivery/telegram"
	"github.com/curvewatch/curvewatch/fred"
	"github.com/curvewatch/curvewatch/internal/config"
	"github.com/curvewatch/curvewatch/llm"
	"github.com/curvewatch/curvewatch/report"
	"github.com/curvewatch/curvewatch/store/sqlite"
)

var (
	reportMaturity string
	reportStart    string
	reportProvider string
	reportSend     bool
	reportPreview  bool
	reportForce    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a daily narrative yield report",
	Long: `Generate the daily ten-topic report for one maturity through the
LLM provider fallback chain, and optionally deliver it to the configured
channels (Telegram, Slack, GitHub issues).

A daily sentinel prevents duplicate sends; --force overrides it.

  curvewatch report --maturity US10Y
  curvewatch report --maturity US10Y --send
  curvewatch report --maturity US2Y --send --preview`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportMaturity, "maturity", "US10Y", "Maturity to report on: US2Y, US10Y or US30Y")
	reportCmd.Flags().StringVar(&reportStart, "start", "2000-01-01", "Observation start date for the factual context")
	reportCmd.Flags().StringVar(&reportProvider, "provider", "", "Override the primary LLM provider for this run")
	reportCmd.Flags().BoolVar(&reportSend, "send", false, "Deliver the report to the configured channels")
	reportCmd.Flags().BoolVar(&reportPreview, "preview", false, "Prefix the delivered message with [PREVIEW]")
	reportCmd.Flags().BoolVar(&reportForce, "force", false, "Ignore the daily sent sentinel")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m, err := parseMaturity(reportMaturity)
	if err != nil {
		return err
	}

	key := report.Key(m)
	now := time.Now()
	sentinelPath := filepath.Join(cfg.SentinelDir, key+".sent")

	if reportSend && !reportForce && report.AlreadySent(sentinelPath, now) {
		fmt.Println("Already sent today. Use --force to override.")
		return nil
	}

	// Fetch the full history for the factual context block.
	client := fred.New(cfg.FREDAPIKey, cfg.FREDBaseURL)
	s, err := client.FetchSeries(cmd.Context(), maturitySeries[m], reportStart)
	if err != nil {
		return err
	}

	number, err := report.NextNumber(cfg.CounterPath, key)
	if err != nil {
		return err
	}

	llmCfg := cfg.LLMConfig()
	if reportProvider != "" {
		llmCfg.Primary = reportProvider
	}
	llmClient := llm.New(llmCfg)

	res, err := report.Generate(cmd.Context(), llmClient, m, s, number, now)
	if err != nil {
		return err
	}

	fmt.Println(res.HTML)

	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.AddReport(&sqlite.Report{
		ID:       res.RunID,
		Key:      res.Key,
		Number:   res.Number,
		Title:    res.Title,
		Provider: res.Provider,
		Body:     res.Body,
	}); err != nil {
		return err
	}

	if !reportSend {
		return nil
	}

	msg := delivery.Message{
		Title: res.Title,
		HTML:  res.HTML,
		Text:  res.Title + "\n\n" + res.Body + "\n\nLLM provider: " + res.Provider,
	}
	if reportPreview {
		msg.Title = "[PREVIEW] " + msg.Title
		msg.HTML = "<b>[PREVIEW]</b>\n\n" + msg.HTML
		msg.Text = "[PREVIEW]\n\n" + msg.Text
	}

	channels, err := buildChannels(cfg)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		return fmt.Errorf("no delivery channel configured (set Telegram, Slack or GitHub credentials)")
	}

	var delivered []string
	for _, ch := range channels {
		if err := ch.Send(cmd.Context(), msg); err != nil {
			return fmt.Errorf("delivering via %s: %w", ch.Name(), err)
		}
		log.Printf("[report] delivered via %s", ch.Name())
		delivered = append(delivered, ch.Name())
	}

	if err := report.MarkSent(sentinelPath, now); err != nil {
		return err
	}
	fmt.Printf("Delivered via %s\n", strings.Join(delivered, ", "))
	return nil
}

// buildChannels assembles every configured delivery channel.
func buildChannels(cfg *config.Config) ([]delivery.Channel, error) {
	var channels []delivery.Channel

	if cfg.TelegramEnabled() {
		ch, err := deliverytelegram.New(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	if cfg.SlackEnabled() {
		channels = append(channels, deliveryslack.New(cfg.SlackBotToken, cfg.SlackChannel))
	}
	if cfg.GitHubEnabled() {
		ch, err := deliverygithub.New(cfg.GitHubToken, cfg.GitHubRepo, []string{"report"})
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
