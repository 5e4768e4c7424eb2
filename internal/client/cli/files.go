package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/navigation"
	"github.com/dmitrijs2005/arch1v/internal/client/services"
)

// Upload sends the file at path. A duplicate reports where the original is
// kept and can be located with a bare "locate".
func (a *App) Upload(ctx context.Context, path string) error {
	w := a.uploadWorkflow()
	if w == nil {
		return services.ErrClosed
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(a.out, errorStyle.Render(fmt.Sprintf("Cannot open %s: %v", path, err)))
		return err
	}
	defer f.Close()

	fmt.Fprintf(a.out, "Uploading %s...\n", filepath.Base(path))

	out, err := w.Submit(ctx, models.UploadFile{Name: filepath.Base(path), Reader: f})
	if err != nil {
		if errors.Is(err, services.ErrBusy) {
			fmt.Fprintln(a.out, "An upload is already in progress")
		}
		return err
	}

	fmt.Fprintln(a.out, renderOutcome(*out))
	return nil
}

// List refetches the registry and prints it.
func (a *App) List(ctx context.Context) error {
	if err := a.registry.Load(ctx); err != nil {
		return err
	}
	// A rejected session unmounts the registry mid-fetch.
	if a.View() != navigation.ViewDashboard {
		return nil
	}
	fmt.Fprint(a.out, renderFiles(a.registry.Files(), a.now()))
	return nil
}

// Locate prints where the server keeps hash. Without a hash it locates the
// original of the last duplicate upload.
func (a *App) Locate(ctx context.Context, hash string) error {
	if hash == "" {
		w := a.uploadWorkflow()
		target, ok := "", false
		if w != nil {
			target, ok = w.LocateTarget()
		}
		if !ok {
			fmt.Fprintln(a.out, "Usage: locate <hash>")
			return services.ErrEmptyHash
		}
		hash = target
	}

	path, err := a.registry.Locate(ctx, hash)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, headerStyle.Render("File Location"))
	fmt.Fprintln(a.out, "  "+path)
	return nil
}

// Delete removes one file after a y/N confirmation.
func (a *App) Delete(ctx context.Context, hash string) error {
	if err := a.registry.RequestDelete(hash); err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete file %s?", services.ShortHash(hash)), a.out)
	if err != nil || !ok {
		a.registry.CancelDelete()
		fmt.Fprintln(a.out, "Cancelled")
		return err
	}

	return a.registry.ConfirmDelete(ctx)
}

// Clear removes every file after its own y/N confirmation. It is refused
// while the registry is empty.
func (a *App) Clear(ctx context.Context) error {
	if err := a.registry.RequestClear(); err != nil {
		if errors.Is(err, services.ErrRegistryEmpty) {
			fmt.Fprintln(a.out, "No files uploaded yet")
		} else {
			fmt.Fprintln(a.out, err)
		}
		return err
	}

	fmt.Fprintln(a.out, warningStyle.Render("Clear All Files"))
	fmt.Fprintln(a.out, "This will permanently delete all files. This action cannot be undone.")
	ok, err := Confirm(a.reader, "Clear all files?", a.out)
	if err != nil || !ok {
		a.registry.CancelClear()
		fmt.Fprintln(a.out, "Cancelled")
		return err
	}

	return a.registry.ConfirmClear(ctx)
}
