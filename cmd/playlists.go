package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Mohakgarg5/littlescreen-v2/internal/formatter"
	"github.com/Mohakgarg5/littlescreen-v2/internal/repositories"
	"github.com/Mohakgarg5/littlescreen-v2/internal/services"
	"github.com/Mohakgarg5/littlescreen-v2/internal/session"
	"github.com/Mohakgarg5/littlescreen-v2/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistsExport writes a playlist with its items as csv, markdown or text.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id is required", shared.ErrMissingArgument)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	svc := services.NewPlaylistService(repositories.NewPlaylistRepository(db), r.logger)
	detail, err := svc.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist %s: %w", id, err)
	}

	data, err := formatter.Export(detail, cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		r.writePlain("%s\n", r.palette.OK(fmt.Sprintf("Exported %q (%d items) to %s", detail.Name, len(detail.Items), path)))
		return nil
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// SessionDecode prints the claims carried by a session token.
func (r *Runner) SessionDecode(ctx context.Context, cmd *cli.Command) error {
	token := cmd.StringArg("token")
	if token == "" {
		return fmt.Errorf("%w: token is required", shared.ErrMissingArgument)
	}

	claims := session.NewCodec().Decode(token)
	if claims == nil {
		r.writePlain("%s\n", r.palette.Fail("Token does not carry a valid session"))
		return fmt.Errorf("%w: token rejected", shared.ErrInvalidArgument)
	}
	return r.writeJSON(claims, true)
}
