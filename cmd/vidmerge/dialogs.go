package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"

	"vidmerge/internal/pdftext"
)

// errPickCanceled reports that the user closed a dialog.
var errPickCanceled = errors.New("selection canceled")

// pathPicker asks the user for the three merge paths.
type pathPicker interface {
	Folder(title string) (string, error)
	PDF(title string) (string, error)
	Output(title string) (string, error)
}

type zenityPicker struct{}

func (zenityPicker) Folder(title string) (string, error) {
	return zenity.SelectFile(zenity.Title(title), zenity.Directory())
}

func (zenityPicker) PDF(title string) (string, error) {
	return zenity.SelectFile(
		zenity.Title(title),
		zenity.FileFilters{{Name: "PDF files", Patterns: []string{"*.pdf"}, CaseFold: true}},
	)
}

func (zenityPicker) Output(title string) (string, error) {
	filters := make(zenity.FileFilters, 0, len(pdftext.Extensions))
	for _, ext := range pdftext.Extensions {
		name := strings.ToUpper(strings.TrimPrefix(ext, ".")) + " files"
		filters = append(filters, zenity.FileFilter{Name: name, Patterns: []string{"*" + ext}, CaseFold: true})
	}
	return zenity.SelectFileSave(zenity.Title(title), zenity.ConfirmOverwrite(), filters)
}

// pickPaths fills in whichever of folder, pdf and output are empty by asking
// picker. A chosen output without an extension gets ".mp4".
func pickPaths(picker pathPicker, folder, pdf, output string) (string, string, string, error) {
	var err error
	if strings.TrimSpace(folder) == "" {
		if folder, err = picker.Folder("Select video folder"); err != nil {
			return "", "", "", pickError(err)
		}
	}
	if strings.TrimSpace(pdf) == "" {
		if pdf, err = picker.PDF("Select PDF file"); err != nil {
			return "", "", "", pickError(err)
		}
	}
	if strings.TrimSpace(output) == "" {
		if output, err = picker.Output("Save merged video as"); err != nil {
			return "", "", "", pickError(err)
		}
	}
	return folder, pdf, withDefaultExtension(output), nil
}

func withDefaultExtension(output string) string {
	if output == "" || filepath.Ext(output) != "" {
		return output
	}
	return output + ".mp4"
}

func pickError(err error) error {
	if errors.Is(err, zenity.ErrCanceled) {
		return errPickCanceled
	}
	return fmt.Errorf("open dialog: %w", err)
}
