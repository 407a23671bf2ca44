package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

var chatAnalysisID string

var chatCmd = &cobra.Command{
	Use:   "chat <melding>",
	Short: "Still ett spørsmål om en analysert bolig",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")

		e, err := initEnv(true)
		if err != nil {
			return eris.Wrap(err, "chat: init")
		}
		defer e.Close()

		ctx := cmd.Context()
		if err := e.Store.Migrate(ctx); err != nil {
			return err
		}

		var (
			listing  *model.CanonicalListing
			extended *model.ExtendedAnalysis
			history  []model.ChatMessage
		)
		if chatAnalysisID != "" {
			saved, err := e.Store.GetAnalysis(ctx, chatAnalysisID)
			if err != nil {
				return err
			}
			if saved == nil {
				return eris.Errorf("chat: no analysis with id %s", chatAnalysisID)
			}
			listing = &saved.Analysis.Listing
			extended = saved.ExtendedAnalysis

			history, err = e.Store.GetChatHistory(ctx, chatAnalysisID)
			if err != nil {
				return err
			}
		}

		reply := e.Assistant.BuildTurn(ctx, message, listing, extended, history)

		if chatAnalysisID != "" {
			userMsg := model.ChatMessage{
				Role:      model.RoleUser,
				Content:   message,
				Timestamp: reply.Timestamp,
			}
			if err := e.Store.AppendChatMessage(ctx, chatAnalysisID, userMsg); err != nil {
				return err
			}
			if err := e.Store.AppendChatMessage(ctx, chatAnalysisID, reply); err != nil {
				return err
			}
		}

		fmt.Println(reply.Content)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatAnalysisID, "analysis", "", "id for lagret analyse å samtale om")
	rootCmd.AddCommand(chatCmd)
}
