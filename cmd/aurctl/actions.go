package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	actionsCmd := &cobra.Command{Use: "actions", Short: "Submit eco actions"}

	// log
	var actionType string
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Log a self-reported action",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" || actionType == "" {
				return fmt.Errorf("--user and --type required")
			}
			payload := map[string]interface{}{"user_id": userFlag, "action_type": actionType}
			data, err := doPostJSON(apiFlag+"/api/log-action", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	logCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	logCmd.Flags().StringVarP(&actionType, "type", "t", "", "Action type, e.g. wellbeing (required)")
	_ = logCmd.MarkFlagRequired("type")
	actionsCmd.AddCommand(logCmd)

	// walk / bike share the same metric flags
	for _, route := range []struct {
		use, short, path string
	}{
		{"walk", "Submit a verified walk", "/api/verified-walk"},
		{"bike", "Submit a verified bike ride", "/api/verified-bike"},
	} {
		route := route
		var distance, duration, speed float64
		c := &cobra.Command{
			Use:   route.use,
			Short: route.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				if userFlag == "" {
					return fmt.Errorf("--user required")
				}
				payload := map[string]interface{}{
					"user_id":       userFlag,
					"distance_m":    distance,
					"duration_s":    duration,
					"avg_speed_kmh": speed,
				}
				data, err := doPostJSON(apiFlag+route.path, payload)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(os.Stdout, string(data))
				return nil
			},
		}
		c.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
		c.Flags().Float64VarP(&distance, "distance", "d", 0, "Distance in meters")
		c.Flags().Float64VarP(&duration, "duration", "s", 0, "Duration in seconds")
		c.Flags().Float64VarP(&speed, "speed", "k", 0, "Average speed in km/h")
		actionsCmd.AddCommand(c)
	}

	// waste
	var before, after string
	wasteCmd := &cobra.Command{
		Use:   "waste",
		Short: "Submit a verified waste cleanup (before/after photos)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" || before == "" || after == "" {
				return fmt.Errorf("--user, --before and --after required")
			}
			data, err := doPostMultipart(
				apiFlag+"/api/verified-waste",
				map[string]string{"user_id": userFlag},
				map[string]string{"before": before, "after": after},
			)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	wasteCmd.Flags().StringVarP(&userFlag, "user", "u", "", "User ID (required)")
	wasteCmd.Flags().StringVarP(&before, "before", "b", "", "Before photo path (required)")
	wasteCmd.Flags().StringVarP(&after, "after", "f", "", "After photo path (required)")
	_ = wasteCmd.MarkFlagRequired("before")
	_ = wasteCmd.MarkFlagRequired("after")
	actionsCmd.AddCommand(wasteCmd)

	rootCmd.AddCommand(actionsCmd)
}
