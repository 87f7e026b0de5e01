package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ritter-digital/leads-cli/internal/campaign"
)

var campaignFile string

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Dispatch a personalized email campaign from a YAML file",
	Long:  "Reads subject, bodies, sender and recipients from a YAML file and sends sequentially with throttling. Individual failures are reported but never abort the batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(campaignFile)
		if err != nil {
			return eris.Wrapf(err, "read campaign file %s", campaignFile)
		}

		var req campaign.Request
		if err := yaml.Unmarshal(data, &req); err != nil {
			return eris.Wrap(err, "parse campaign file")
		}
		if req.SenderEmail == "" {
			req.SenderEmail = cfg.Campaign.SenderEmail
		}
		if req.SenderName == "" {
			req.SenderName = cfg.Campaign.SenderName
		}
		if len(req.Recipients) == 0 {
			return eris.New("campaign file has no recipients")
		}

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Dispatcher.SendCampaign(ctx, req)
		if err != nil {
			return err
		}

		for _, o := range result.Outcomes {
			if o.Success {
				fmt.Printf("  sent    %s (%s)\n", o.Email, o.MessageID)
			} else {
				fmt.Printf("  FAILED  %s: %s\n", o.Email, o.Error)
			}
		}
		fmt.Printf("\n%d sent, %d failed\n", result.SentCount, result.FailedCount)

		if !result.Success {
			zap.L().Error("campaign: every send failed", zap.String("campaign_id", result.CampaignID))
			return eris.New("campaign failed for all recipients")
		}
		return nil
	},
}

func init() {
	campaignCmd.Flags().StringVarP(&campaignFile, "file", "f", "", "campaign YAML file (required)")
	_ = campaignCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(campaignCmd)
}
