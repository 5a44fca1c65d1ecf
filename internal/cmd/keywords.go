package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vectra-ml/vectra/internal/explorer"
	"github.com/vectra-ml/vectra/internal/keywords"
)

// keywordsCmd represents the keywords command
var keywordsCmd = &cobra.Command{
	Use:   "keywords <collection>",
	Short: "Extract descriptive keywords for each cluster",
	Long: `Keywords pools every document of each cluster into one body of text and
ranks candidate terms by co-occurrence score. The collection must have been
clustered first.

Examples:
  vectra keywords reviews
  vectra keywords reviews --top 5 --min-freq 2
  vectra keywords reviews --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runKeywords,
}

// Command-line flags
var (
	keywordsTop     int
	keywordsMinFreq int
	keywordsLang    string
)

func init() {
	rootCmd.AddCommand(keywordsCmd)

	keywordsCmd.Flags().IntVar(&keywordsTop, "top", 0, "Keywords per cluster (default from config)")
	keywordsCmd.Flags().IntVar(&keywordsMinFreq, "min-freq", 0, "Minimum term frequency (default from config)")
	keywordsCmd.Flags().StringVar(&keywordsLang, "lang", "", "Stopword language (default from config)")
}

func runKeywords(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if keywordsTop == 0 {
		keywordsTop = cfg.Explore.TopN
	}
	if keywordsMinFreq == 0 {
		keywordsMinFreq = cfg.Explore.MinFreq
	}
	if keywordsLang == "" {
		keywordsLang = cfg.Explore.Language
	}

	e, err := loadClustered(args[0])
	if err != nil {
		return err
	}

	stop, err := keywords.StopWords(keywordsLang)
	if err != nil {
		return err
	}
	ranker := keywords.NewRake(stop)
	ranker.MinFreq = keywordsMinFreq

	byCluster, err := e.Keywords(ranker, keywordsTop)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(byCluster))
	for name := range byCluster {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s: %s\n", name, strings.Join(byCluster[name], ", "))
	}
	return nil
}

// loadClustered loads a collection and its labels into an explorer.
func loadClustered(name string) (*explorer.Explorer, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	docs, vectors, err := s.LoadCollection(name)
	if err != nil {
		return nil, err
	}
	labels, err := s.LoadLabels(name)
	if err != nil {
		return nil, err
	}

	e, err := explorer.New(docs, vectors)
	if err != nil {
		return nil, err
	}
	if err := e.SetLabels(labels); err != nil {
		return nil, err
	}
	return e, nil
}
