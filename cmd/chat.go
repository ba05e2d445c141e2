package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the HR assistant questions from the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		container, err := NewContainer(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer container.Close()

		caller := auth.AuthContext{UserID: "cli", Role: auth.RoleEmployee}
		out := cmd.OutOrStdout()
		prompt := promptui.Prompt{Label: "Ask HR (ctrl+c to quit)"}

		for {
			question, err := prompt.Run()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			if strings.TrimSpace(question) == "" {
				continue
			}

			reply, err := container.ChatbotService.Answer(cmd.Context(), caller, question)
			if err != nil {
				fmt.Fprintf(out, "  ! %v\n", err)
				continue
			}
			fmt.Fprintf(out, "  [%s] %s\n", reply.Source, reply.Text)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
