// Package visualizer ties document parsing, overlay rendering and scan I/O
// together for single documents and whole directories.
package visualizer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/page-overlay/internal/config"
	"github.com/ironsheep/page-overlay/internal/imaging"
	"github.com/ironsheep/page-overlay/internal/logging"
	"github.com/ironsheep/page-overlay/internal/overlay"
	"github.com/ironsheep/page-overlay/internal/pagexml"
)

var (
	// ErrMissingInput is returned when a document's scan or XML file does not
	// exist.
	ErrMissingInput = errors.New("missing input file")

	// ErrNoDocuments is returned by RunBatch when the XML directory holds no
	// documents.
	ErrNoDocuments = errors.New("no XML files found")
)

// Options selects what Process produces besides the reading-order sequence,
// which is always computed.
type Options struct {
	CollectStats  bool
	CreateOverlay bool
}

// Result is the outcome of processing one document.
type Result struct {
	Name     string
	Sequence pagexml.SequenceRecord

	// Counts is nil unless Options.CollectStats was set.
	Counts *pagexml.CountRecord

	// OverlayPath is empty unless an overlay was written.
	OverlayPath string
}

// Processor handles one document at a time. It holds a font face and is not
// safe for concurrent use.
type Processor struct {
	cfg      *config.Config
	font     *overlay.Font
	renderer *overlay.Renderer
}

// New builds a Processor with its own label font.
func New(cfg *config.Config) (*Processor, error) {
	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	f := overlay.LoadFont(cfg.FontCandidates, cfg.FontDirs, cfg.FontSize)
	return &Processor{
		cfg:      cfg,
		font:     f,
		renderer: overlay.NewRenderer(palette, f),
	}, nil
}

// Close releases the processor's font.
func (p *Processor) Close() error {
	return p.font.Close()
}

// ImagePath returns the scan path for a document name.
func (p *Processor) ImagePath(name string) string {
	return filepath.Join(p.cfg.ImagesDir, name+".jpg")
}

// XMLPath returns the PAGE XML path for a document name.
func (p *Processor) XMLPath(name string) string {
	return filepath.Join(p.cfg.XMLDir, name+".xml")
}

// OverlayPath returns where the overlay for a document name is written.
func (p *Processor) OverlayPath(name string) string {
	return filepath.Join(p.cfg.OutputDir, name+"_overlay.jpg")
}

// Process parses the document called name and, depending on opts, counts
// its regions and writes its overlay.
//
// # Errors
//
//   - ErrMissingInput if the scan or the XML file does not exist
//   - pagexml.ErrMalformedDocument if the XML cannot be parsed
//   - scan decoding and overlay write errors
func (p *Processor) Process(name string, opts Options) (*Result, error) {
	imagePath, xmlPath := p.ImagePath(name), p.XMLPath(name)
	if err := verifyInputs(imagePath, xmlPath); err != nil {
		return nil, err
	}

	doc, err := pagexml.ParseFile(xmlPath, p.cfg.Namespace)
	if err != nil {
		return nil, err
	}
	if len(doc.Regions) == 0 {
		logging.Warnf("No TextRegion elements found in %s", xmlPath)
	}

	res := &Result{Name: name}

	if opts.CreateOverlay {
		out, err := p.renderOverlay(imagePath, name, doc.Regions)
		if err != nil {
			return nil, err
		}
		res.OverlayPath = out
	} else {
		logging.Infof("Overlay creation skipped for %s", name)
	}

	if opts.CollectStats {
		counts := pagexml.CountRegions(doc, name)
		res.Counts = &counts
	}
	res.Sequence = pagexml.ResolveSequence(doc, name)

	return res, nil
}

func (p *Processor) renderOverlay(imagePath, name string, regions []pagexml.Region) (string, error) {
	scan, err := imaging.Load(imagePath)
	if err != nil {
		return "", err
	}
	size := scan.Bounds().Size()
	logging.Debugf("Rendering %d regions over %s (%dx%d)", len(regions), imagePath, size.X, size.Y)

	layer := p.renderer.Render(size, regions)
	out := p.OverlayPath(name)
	if err := imaging.Save(out, imaging.Composite(scan, layer), p.cfg.JPEGQuality); err != nil {
		return "", err
	}
	logging.Infof("Saved overlay image: %s", out)
	return out, nil
}

func verifyInputs(imagePath, xmlPath string) error {
	if _, err := os.Stat(imagePath); err != nil {
		logging.Warnf("Image file not found: %s", imagePath)
		return fmt.Errorf("%w: %s", ErrMissingInput, imagePath)
	}
	if _, err := os.Stat(xmlPath); err != nil {
		logging.Warnf("XML file not found: %s", xmlPath)
		return fmt.Errorf("%w: %s", ErrMissingInput, xmlPath)
	}
	return nil
}

// EnsureDirs creates the configured input and output directories.
func EnsureDirs(cfg *config.Config) {
	for _, dir := range []string{cfg.ImagesDir, cfg.XMLDir, cfg.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logging.Warnf("Could not create directory %s: %v", dir, err)
		}
	}
}
