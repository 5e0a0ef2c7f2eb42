package cmd

import (
	"os"
	"path/filepath"

	"github.com/lucsky/cuid"
	"github.com/mpucli/mpu/config"
	"github.com/mpucli/mpu/constants"
	"github.com/mpucli/mpu/lib/console"
	"github.com/mpucli/mpu/lib/coordinator"
	"github.com/mpucli/mpu/lib/partput"
	"github.com/mpucli/mpu/lib/planner"
	"github.com/mpucli/mpu/lib/uploader"
	"github.com/mpucli/mpu/lib/util"
	"github.com/mpucli/mpu/models"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"github.com/vbauerster/mpb/v7"
)

// Upload the given files to storage via the coordinator.
func Upload(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return console.Error(constants.ErrMsgNoFiles)
	}

	// Extract flags
	chunkSize := config.I.Storage.ChunkSize
	if c.Int64("chunk-size") > 0 {
		chunkSize = c.Int64("chunk-size")
	}
	contentTypeOverride := c.String("content-type")

	// Build upload targets from the selected files
	targets := []models.UploadTarget{}
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return console.Error("Failed to open file \"%s\": %v", path, err)
		}
		defer file.Close()

		info, err := file.Stat()
		if err != nil {
			return console.Error("Failed to stat file \"%s\": %v", path, err)
		}

		contentType := contentTypeOverride
		if contentType == "" {
			contentType = util.ContentTypeForPath(path)
		}

		targets = append(targets, models.UploadTarget{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Size:        info.Size(),
			Reader:      file,
		})
	}

	batchID := cuid.New()
	console.Verbose("Batch %s: uploading %d files (chunk size %d)", batchID, len(targets), chunkSize)

	// One progress bar per file, sized by its planned part count
	p := mpb.New(mpb.WithWidth(60))
	bars := lo.Map(targets, func(t models.UploadTarget, _ int) *mpb.Bar {
		return util.NewProgressBar(p, len(planner.Plan(t.Size, chunkSize)), t.Name)
	})

	mgr := uploader.NewManager(coordinator.New(), partput.New(), uploader.Options{
		ChunkSize:      chunkSize,
		AbortOnFailure: config.I.Storage.AbortOnFailure,
	})

	batch := uploader.NewBatchState(targets)
	mgr.UploadAll(c.Context, batch, uploader.Hooks{
		OnStatus: func(index int, status string) {
			console.Verbose("%s: %s", targets[index].Name, status)
		},
		OnPartDone: func(index int, done int, total int) {
			bars[index].Increment()
		},
	})

	// Drop the bars of failed files so the render loop can finish
	for index, state := range batch.States() {
		if state != uploader.StateDone {
			bars[index].Abort(true)
		}
	}
	p.Wait()

	// Print per-file outcomes
	for index, status := range batch.Statuses() {
		if batch.States()[index] == uploader.StateDone {
			console.Success("%s: %s", targets[index].Name, status)
		} else {
			console.ErrorPrint("%s: %s", targets[index].Name, status)
		}
	}

	if failed := batch.FailedCount(); failed > 0 {
		return console.Error("%d of %d uploads failed", failed, len(targets))
	}

	return nil
}
