package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/NocTempre/acks-caravan/internal/environment"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	var (
		tablesPath string
		outDir     string
	)
	flag.StringVar(&tablesPath, "tables", "", "environment YAML merged over the builtin tables")
	flag.StringVar(&outDir, "out", filepath.Join("docs", "reference", "environment"), "output directory")
	flag.Parse()

	tables := environment.Builtin()
	if tablesPath != "" {
		loaded, err := environment.Load(tablesPath)
		if err != nil {
			fatal(err)
		}
		tables = loaded
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateTerrainDoc(tables),
		generateRoadsDoc(tables),
		generateWeatherDoc(tables),
		generateVesselsDoc(tables),
	}
	for _, f := range files {
		path := filepath.Join(outDir, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(files)
	indexPath := filepath.Join(outDir, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Environment Tables\n\n")
	b.WriteString("Generated from the environment tables using `go run ./cmd/envdocs`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateTerrainDoc(tables *environment.Tables) docFile {
	items := tables.TerrainList()

	var b strings.Builder
	b.WriteString("# Terrain\n\n")
	b.WriteString(fmt.Sprintf("Total terrain types: **%d**.\n\n", len(items)))
	b.WriteString("| Key | Name | Layer | Movement | Navigation | Encounter Distance | Evasion | Aliases |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, t := range items {
		b.WriteString("| ")
		b.WriteString(escape(t.Key))
		b.WriteString(" | ")
		b.WriteString(escape(t.Name))
		b.WriteString(" | ")
		b.WriteString(escape(string(t.Layer)))
		b.WriteString(" | ")
		b.WriteString(formatMultiplier(t.MovementMultiplier))
		b.WriteString(" | ")
		b.WriteString(strconv.Itoa(t.NavigationDifficulty))
		b.WriteString(" | ")
		b.WriteString(escape(t.EncounterDistance))
		b.WriteString(" | ")
		b.WriteString(escape(formatEvasion(t.Evasion)))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(t.Aliases, ", ")))
		b.WriteString(" |\n")
	}

	return docFile{Name: "terrain.md", Title: "Terrain", Content: b.String()}
}

func generateRoadsDoc(tables *environment.Tables) docFile {
	items := tables.RoadList()

	var b strings.Builder
	b.WriteString("# Roads\n\n")
	b.WriteString(fmt.Sprintf("Total road types: **%d**.\n\n", len(items)))
	b.WriteString("| Key | Name | On Foot | Driving | Lost In | Aliases |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range items {
		b.WriteString("| ")
		b.WriteString(escape(r.Key))
		b.WriteString(" | ")
		b.WriteString(escape(r.Name))
		b.WriteString(" | ")
		b.WriteString(formatMultiplier(r.SpeedMultiplier))
		b.WriteString(" | ")
		b.WriteString(formatMultiplier(r.DrivingMultiplier))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(r.IneffectiveWeather, ", ")))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(r.Aliases, ", ")))
		b.WriteString(" |\n")
	}

	return docFile{Name: "roads.md", Title: "Roads", Content: b.String()}
}

func generateWeatherDoc(tables *environment.Tables) docFile {
	items := tables.WeatherList()

	var b strings.Builder
	b.WriteString("# Weather\n\n")
	b.WriteString(fmt.Sprintf("Total weather conditions: **%d**.\n\n", len(items)))
	b.WriteString("| Key | Name | Movement | Navigation | Aliases |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, w := range items {
		b.WriteString("| ")
		b.WriteString(escape(w.Key))
		b.WriteString(" | ")
		b.WriteString(escape(w.Name))
		b.WriteString(" | ")
		b.WriteString(formatMultiplier(w.Multiplier()))
		b.WriteString(" | ")
		b.WriteString(formatSigned(w.NavigationModifier))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(w.Aliases, ", ")))
		b.WriteString(" |\n")
	}

	return docFile{Name: "weather.md", Title: "Weather", Content: b.String()}
}

func generateVesselsDoc(tables *environment.Tables) docFile {
	items := tables.VesselList()

	var b strings.Builder
	b.WriteString("# Vessels\n\n")
	b.WriteString(fmt.Sprintf("Total vessels: **%d**.\n\n", len(items)))
	b.WriteString("| Key | Name | Layer | Miles/Day | Weather Affected | Cargo (st) | Aliases |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, v := range items {
		b.WriteString("| ")
		b.WriteString(escape(v.Key))
		b.WriteString(" | ")
		b.WriteString(escape(v.Name))
		b.WriteString(" | ")
		b.WriteString(escape(string(v.Layer)))
		b.WriteString(" | ")
		b.WriteString(formatFloat(v.ExpeditionSpeed))
		b.WriteString(" | ")
		b.WriteString(yesNo(v.WeatherAffected))
		b.WriteString(" | ")
		b.WriteString(formatFloat(v.CargoCapacity))
		b.WriteString(" | ")
		b.WriteString(escape(strings.Join(v.Aliases, ", ")))
		b.WriteString(" |\n")
	}

	return docFile{Name: "vessels.md", Title: "Vessels", Content: b.String()}
}

func formatEvasion(brackets []environment.EvasionBracket) string {
	if len(brackets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(brackets))
	for _, br := range brackets {
		size := "any"
		if br.MaxPartySize > 0 {
			size = "≤" + strconv.Itoa(br.MaxPartySize)
		}
		parts = append(parts, fmt.Sprintf("%s:%d", size, br.Difficulty))
	}
	return strings.Join(parts, ", ")
}

func formatMultiplier(v float64) string {
	return "×" + strconv.FormatFloat(v, 'f', 2, 64)
}

func formatSigned(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
