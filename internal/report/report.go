package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/reelpulse/internal/metadata"
	"github.com/spacesedan/reelpulse/internal/models"
)

const (
	dateLayout   = "2006-01-02"
	topWordCount = 15
	minWordLen   = 3
)

// TrendPoint is the mean score of the reviews posted in one period.
type TrendPoint struct {
	Period    string  `json:"period"`
	Reviews   int     `json:"reviews"`
	MeanScore float64 `json:"mean_score"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// MovieReport aggregates one movie's scored reviews.
type MovieReport struct {
	Movie        string             `json:"movie"`
	Info         *models.MovieInfo  `json:"info,omitempty"`
	Reviews      int                `json:"reviews"`
	Distribution map[string]int     `json:"distribution"`
	MeanByLabel  map[string]float64 `json:"mean_by_label"`
	MeanScore    float64            `json:"mean_score"`
	Daily        []TrendPoint       `json:"daily,omitempty"`
	Yearly       []TrendPoint       `json:"yearly,omitempty"`
	TopWords     []WordCount        `json:"top_words,omitempty"`
}

type Report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Movies      []MovieReport `json:"movies"`
}

type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// Build groups records by movie, in first-seen order, and joins each group
// with its metadata row.
func Build(records []models.ReviewSentiment, infos []models.MovieInfo) *Report {
	var order []string
	groups := make(map[string][]models.ReviewSentiment)
	for _, r := range records {
		if _, ok := groups[r.Movie]; !ok {
			order = append(order, r.Movie)
		}
		groups[r.Movie] = append(groups[r.Movie], r)
	}

	index := indexInfos(infos)

	rep := &Report{GeneratedAt: time.Now().UTC()}
	for _, movie := range order {
		mr := buildMovie(movie, groups[movie])
		mr.Info = index.find(movie)
		rep.Movies = append(rep.Movies, mr)
	}

	slog.Info("[Report] Built report",
		slog.Int("movies", len(rep.Movies)),
		slog.Int("reviews", len(records)))
	return rep
}

func buildMovie(movie string, records []models.ReviewSentiment) MovieReport {
	mr := MovieReport{
		Movie:        movie,
		Reviews:      len(records),
		Distribution: map[string]int{models.LabelPositive: 0, models.LabelNegative: 0, models.LabelNeutral: 0},
		MeanByLabel:  make(map[string]float64),
	}

	var overall accumulator
	byLabel := make(map[string]*accumulator)
	daily := make(map[string]*accumulator)
	yearly := make(map[string]*accumulator)
	words := make(map[string]int)

	for _, r := range records {
		overall.add(r.SentimentScore)
		mr.Distribution[r.SentimentLabel]++
		bucket(byLabel, r.SentimentLabel).add(r.SentimentScore)

		if d, err := time.Parse(dateLayout, r.Date); err == nil {
			bucket(daily, d.Format(dateLayout)).add(r.SentimentScore)
			bucket(yearly, d.Format("2006")).add(r.SentimentScore)
		}

		for _, w := range strings.Fields(r.Review) {
			if utf8.RuneCountInString(w) >= minWordLen && !stopWords[w] {
				words[w]++
			}
		}
	}

	mr.MeanScore = overall.mean()
	for label, acc := range byLabel {
		mr.MeanByLabel[label] = acc.mean()
	}
	mr.Daily = trend(daily)
	mr.Yearly = trend(yearly)
	mr.TopWords = topWords(words, topWordCount)
	return mr
}

func bucket(m map[string]*accumulator, key string) *accumulator {
	acc, ok := m[key]
	if !ok {
		acc = &accumulator{}
		m[key] = acc
	}
	return acc
}

// trend orders periods ascending. Period keys sort lexically by date.
func trend(m map[string]*accumulator) []TrendPoint {
	points := make([]TrendPoint, 0, len(m))
	for period, acc := range m {
		points = append(points, TrendPoint{Period: period, Reviews: acc.count, MeanScore: acc.mean()})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

func topWords(counts map[string]int, n int) []WordCount {
	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

type infoIndex struct {
	byLabel map[string]*models.MovieInfo
	byTitle map[string]*models.MovieInfo
}

// indexInfos keys metadata by full label and by bare lowercase title, so
// error rows that only kept the title still join.
func indexInfos(infos []models.MovieInfo) infoIndex {
	idx := infoIndex{
		byLabel: make(map[string]*models.MovieInfo, len(infos)),
		byTitle: make(map[string]*models.MovieInfo, len(infos)),
	}
	for i := range infos {
		info := &infos[i]
		idx.byLabel[info.Title] = info

		title, _ := metadata.ParseTitleYear(info.Title)
		key := strings.ToLower(title)
		if _, ok := idx.byTitle[key]; !ok {
			idx.byTitle[key] = info
		}
	}
	return idx
}

func (idx infoIndex) find(movie string) *models.MovieInfo {
	if info, ok := idx.byLabel[movie]; ok {
		return info
	}
	title, _ := metadata.ParseTitleYear(movie)
	return idx.byTitle[strings.ToLower(title)]
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(path string, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("[Report] failed to encode report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("[Report] failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("[Report] failed to write %s: %w", path, err)
	}

	slog.Info("[Report] Wrote report", slog.String("path", path))
	return nil
}
