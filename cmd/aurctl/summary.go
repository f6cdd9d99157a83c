package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	// summary
	summaryCmd := &cobra.Command{
		Use:   "summary USER_ID",
		Short: "Show a user's point summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/user-summary/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(summaryCmd)

	// city
	cityCmd := &cobra.Command{
		Use:   "city",
		Short: "Show city-wide totals by neighborhood",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(apiFlag + "/api/city-summary")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(cityCmd)

	// neighborhood
	var neighborhood string
	hoodCmd := &cobra.Command{
		Use:   "set-neighborhood",
		Short: "Assign a user's neighborhood",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" || neighborhood == "" {
				return fmt.Errorf("--user and --neighborhood required")
			}
			payload := map[string]interface{}{"user_id": userFlag, "neighborhood": neighborhood}
			data, err := doPostJSON(apiFlag+"/api/set-neighborhood", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	hoodCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	hoodCmd.Flags().StringVarP(&neighborhood, "neighborhood", "n", "", "Neighborhood name (required)")
	_ = hoodCmd.MarkFlagRequired("neighborhood")
	rootCmd.AddCommand(hoodCmd)

	// recap
	var out string
	recapCmd := &cobra.Command{
		Use:   "recap USER_ID",
		Short: "Fetch a user's spoken weekly recap as MP3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet(fmt.Sprintf("%s/api/voice-recap/%s", apiFlag, args[0]))
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + "-recap.mp3"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "wrote %d bytes to %s\n", len(data), out)
			return nil
		},
	}
	recapCmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default USER_ID-recap.mp3)")
	rootCmd.AddCommand(recapCmd)
}
