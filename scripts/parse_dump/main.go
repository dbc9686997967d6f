// Command parse_dump runs the grid and mapping passes over a single HTML
// export and prints the resulting page as JSON. Useful for checking how a
// real source document parses without standing up the whole service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/kerdl/ktmuscrap-sub000/internal/grid"
	"github.com/kerdl/ktmuscrap-sub000/internal/models"
	"github.com/kerdl/ktmuscrap-sub000/internal/parse"
)

func main() {
	var (
		path        string
		kind        string
		fulltime    string
		remote      string
		maxDistance float64
		similarity  float64
	)

	flag.StringVar(&path, "file", "", "Path to the HTML document")
	flag.StringVar(&kind, "kind", string(models.KindGroups), "Page kind: groups or teachers")
	flag.StringVar(&fulltime, "fulltime-color", "#fce5cd", "Reference color for fulltime subjects")
	flag.StringVar(&remote, "remote-color", "#c9daf8", "Reference color for remote subjects")
	flag.Float64Var(&maxDistance, "color-distance", 50, "Maximum perceptual distance to a reference color")
	flag.Float64Var(&similarity, "weekday-similarity", 0.6, "Minimum trigram similarity for weekday headers")
	flag.Parse()

	if path == "" {
		log.Fatal("-file is required")
	}
	pageKind := models.Kind(kind)
	if pageKind != models.KindGroups && pageKind != models.KindTeachers {
		log.Fatalf("unknown kind %q", kind)
	}

	page, err := parseFile(path, pageKind, fulltime, remote, maxDistance, similarity)
	if err != nil {
		log.Fatalf("parse failed: %v", err)
	}

	out, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		log.Fatalf("encode failed: %v", err)
	}
	fmt.Println(string(out))
}

func parseFile(path string, kind models.Kind, fulltime, remote string, maxDistance, similarity float64) (*models.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := grid.TokenizeDocument(string(data))
	if err != nil {
		return nil, err
	}

	fulltimeColor, err := models.ParseColor(fulltime)
	if err != nil {
		return nil, fmt.Errorf("bad fulltime color: %w", err)
	}
	remoteColor, err := models.ParseColor(remote)
	if err != nil {
		return nil, fmt.Errorf("bad remote color: %w", err)
	}

	mapper := parse.NewMapper(parse.NewPatterns(), parse.FormatClassifier{
		Fulltime:    fulltimeColor,
		Remote:      remoteColor,
		MaxDistance: maxDistance,
	}, similarity, zap.NewNop())

	return mapper.Page(grid.Build(rows), kind, models.ScopeWeekly)
}
