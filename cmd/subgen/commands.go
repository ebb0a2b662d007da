package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subgen/internal/api"
	"subgen/internal/language"
)

func newStatusCommand(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := client.DaemonStatus()
			if err != nil {
				return err
			}
			fmt.Printf("Running:       %v\n", status.Running)
			fmt.Printf("PID:           %d\n", status.PID)
			fmt.Printf("Artifact root: %s\n", status.ArtifactRoot)
			fmt.Printf("Workers:       %d\n", status.Workers)
			fmt.Printf("Queue:         %d/%d\n", status.QueueDepth, status.QueueSize)
			fmt.Printf("Jobs tracked:  %d\n", status.Jobs)
			return nil
		},
	}
}

func newJobsCommand(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List jobs tracked by the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := client.Jobs()
			if err != nil {
				return err
			}
			if len(views) == 0 {
				fmt.Println("No jobs.")
				return nil
			}

			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					view.JobID,
					view.Status,
					formatLanguages(view.Languages),
					view.CreatedAt.Local().Format(time.RFC3339),
					summarizeOutcome(view),
				})
			}
			fmt.Println(renderTable([]string{"ID", "Status", "Languages", "Created", "Outcome"}, rows))
			return nil
		},
	}
}

func newShowCommand(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := client.Job(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Job:       %s\n", view.JobID)
			fmt.Printf("Status:    %s\n", view.Status)
			fmt.Printf("Languages: %s\n", formatLanguages(view.Languages))
			fmt.Printf("Created:   %s\n", view.CreatedAt.Local().Format(time.RFC3339))
			if view.CompletedAt != nil {
				fmt.Printf("Completed: %s\n", view.CompletedAt.Local().Format(time.RFC3339))
			}
			if view.Error != "" {
				fmt.Printf("Error:     %s\n", view.Error)
			}
			for _, sub := range view.Subtitles {
				fmt.Printf("Subtitle:  %s  %s\n", sub.Filename, sub.DownloadURL)
			}
			return nil
		},
	}
}

func newSubmitCommand(client *apiClient) *cobra.Command {
	var languagesFlag string

	cmd := &cobra.Command{
		Use:   "submit <video-file>",
		Short: "Upload a video for subtitle generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Submit(args[0], languagesFlag)
			if err != nil {
				return err
			}
			fmt.Printf("Job %s accepted.\n", result.JobID)
			fmt.Printf("Poll with: subgen show %s\n", result.JobID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&languagesFlag, "languages", "l", "english", "Comma-separated language names or codes")
	return cmd
}

func newSubtitlesCommand(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "subtitles",
		Short: "List generated caption files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := client.Subtitles()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No caption files.")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{entry.Filename, entry.DownloadURL})
			}
			fmt.Println(renderTable([]string{"File", "Download"}, rows))
			return nil
		},
	}
}

func newDownloadCommand(client *apiClient) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "download <job-id> <filename>",
		Short: "Download one caption file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := outputFlag
			if dest == "" {
				dest = args[1]
			}
			if err := client.Download(args[0], args[1], dest); err != nil {
				return err
			}
			fmt.Printf("Saved %s\n", dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination path (defaults to the caption file name)")
	return cmd
}

func newCleanupCommand(client *apiClient) *cobra.Command {
	var yesFlag bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every artifact on the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yesFlag {
				return fmt.Errorf("cleanup deletes all jobs' files; pass --yes to confirm")
			}
			result, err := client.Cleanup()
			if err != nil {
				return err
			}
			fmt.Printf("%s (%d caption files removed)\n", result.Message, result.Removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yesFlag, "yes", false, "Confirm the irreversible cleanup")
	return cmd
}

func formatLanguages(codes []string) string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, language.DisplayName(code))
	}
	return strings.Join(names, ", ")
}

func summarizeOutcome(view api.JobView) string {
	switch {
	case view.Error != "":
		return view.Error
	case len(view.Subtitles) > 0:
		return fmt.Sprintf("%d caption file(s)", len(view.Subtitles))
	default:
		return ""
	}
}
