package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Mohakgarg5/littlescreen-v2/internal/models"
	"github.com/Mohakgarg5/littlescreen-v2/internal/repositories"
	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/Mohakgarg5/littlescreen-v2/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ChannelsSeed upserts the built-in approved channel list.
func (r *Runner) ChannelsSeed(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	n, err := r.adminService(db).SeedChannels(ctx)
	if err != nil {
		return err
	}
	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Seeded %d approved channels", n)))
	return nil
}

// ChannelsList prints the approved channels.
func (r *Runner) ChannelsList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	ref := services.NewReferenceService(repositories.NewChannelRepository(db), repositories.NewContentRatingRepository(db))
	channels, err := ref.Channels(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(channels, true)
	}

	r.writePlainHeader("Approved channels")
	for _, c := range channels {
		r.writePlain("%-32s %-8s ages %d-%d\n", c.ChannelName, c.Platform, c.AgeMin, c.AgeMax)
	}
	r.writePlain("%s\n", r.palette.Hint(fmt.Sprintf("%d channels", len(channels))))
	return nil
}

// Screen classifies one title, or every entry of --file concurrently.
func (r *Runner) Screen(ctx context.Context, cmd *cli.Command) error {
	title := cmd.StringArg("title")
	file := cmd.String("file")

	if title == "" && file == "" {
		return fmt.Errorf("%w: a title or --file must be provided", shared.ErrMissingArgument)
	}
	if title != "" && file != "" {
		return fmt.Errorf("%w: cannot specify both a title and --file", shared.ErrInvalidArgument)
	}

	db, err := r.database()
	if err != nil {
		return err
	}
	admin := r.adminService(db)

	if title != "" {
		req := models.ScreeningRequest{
			Title:       title,
			Description: cmd.String("description"),
			ChannelName: cmd.String("channel"),
		}
		out, err := admin.Screen(ctx, req)
		if err != nil {
			return err
		}
		if cmd.Bool("json") {
			return r.writeJSON(out, true)
		}
		r.writePlain("%s: %s (score %.2f)\n", out.Data.Title, r.palette.Verdict(out.Result.Approved), out.Result.Score)
		if out.Result.Notes != "" {
			r.writePlain("%s\n", r.palette.Hint(out.Result.Notes))
		}
		return nil
	}

	reqs, err := readScreeningFile(file)
	if err != nil {
		return err
	}
	r.logger.Info("bulk screening", "file", file, "titles", len(reqs))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("   %s\n", update)
		}
	}()

	result, err := tasks.BulkScreen(ctx, progressCh, admin, reqs, tasks.BulkScreenOpts{
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Screening Complete")
	r.writePlain("Approved: %d\n", result.Approved)
	r.writePlain("Rejected: %d\n", result.Rejected)
	if result.Failed > 0 {
		r.writePlain("%s\n", r.palette.Fail(fmt.Sprintf("Failed: %d", result.Failed)))
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.Title, res.Error)
			}
		}
	}
	return nil
}

// readScreeningFile accepts a JSON array of screening requests or one title per line.
func readScreeningFile(path string) ([]models.ScreeningRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var reqs []models.ScreeningRequest
		if err := json.Unmarshal(trimmed, &reqs); err != nil {
			return nil, fmt.Errorf("%w: %s is not a list of screening requests: %v", shared.ErrInvalidArgument, path, err)
		}
		return reqs, nil
	}

	var reqs []models.ScreeningRequest
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		reqs = append(reqs, models.ScreeningRequest{Title: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return reqs, nil
}

// FeedbackDigest mails the weekly feedback summary to the admin address.
func (r *Runner) FeedbackDigest(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	out, err := r.adminService(db).Digest(ctx)
	if err != nil {
		return err
	}

	if out.Sent == 0 {
		r.writePlain("%s\n", r.palette.Warn(out.Message))
		return nil
	}
	r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Digest of %d entries sent to %s", out.Sent, r.adminTo())))
	return nil
}
