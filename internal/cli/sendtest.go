package cli

import (
	"github.com/spf13/cobra"

	"hl-fill-alerts/internal/app"
)

var (
	sendTestTitle string
	sendTestBody  string
)

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "向所有已配置的 sendkey 发送一条测试通知",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.SendTestOptions{
			Title: sendTestTitle,
			Body:  sendTestBody,
		}

		return getApp().SendTest(cmd.Context(), opts)
	},
}

func init() {
	sendTestCmd.Flags().StringVar(&sendTestTitle, "title", "hlwatcher test", "Notification title")
	sendTestCmd.Flags().StringVar(&sendTestBody, "body", "This is a test notification.", "Notification body")
}
