package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "E-mail the trending products report to every registered user",
	RunE:  runNotify,
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

func runNotify(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.notifier.NotifyTrending(cmd.Context())
	if result != nil {
		fmt.Printf("%s top product %s, %d/%d delivered\n",
			color.CyanString("report:"), color.New(color.Bold).Sprint(result.Top), result.Sent, result.Recipients)
	}
	return err
}
