package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vectra-ml/vectra/internal/config"
	"github.com/vectra-ml/vectra/internal/vectorizer"
)

// vectorizeCmd represents the vectorize command
var vectorizeCmd = &cobra.Command{
	Use:   "vectorize <path>",
	Short: "Encode a document collection into sentence vectors",
	Long: `Vectorize reads a document collection from a file (one document per
non-empty line) or a directory of .txt files, encodes each document with the
selected transformer model, and pools hidden states into one fixed-size
vector per document.

By default a single encoder layer feeds sentence pooling directly. Passing
--layers with one or more values routes the selection through word pooling
first, which collapses the layers per token position before sentence
pooling. Concat word pooling widens the output by the number of layers.

Examples:
  vectra vectorize docs.txt --save reviews
  vectra vectorize corpus/ --model camembert --save corpus
  vectra vectorize docs.txt --layers 10,11,12 --word-pooling concat --save wide
  vectra vectorize docs.txt --out ./artifacts/`,
	Args: cobra.ExactArgs(1),
	RunE: runVectorize,
}

// Command-line flags
var (
	vectorizeModel        string
	vectorizeLayer        int
	vectorizeLayers       []int
	vectorizeWordPool     string
	vectorizeSentencePool string
	vectorizeMaxLen       int
	vectorizeBatchSize    int
	vectorizeSave         string
	vectorizeOut          string
	vectorizeQuiet        bool
)

func init() {
	rootCmd.AddCommand(vectorizeCmd)

	vectorizeCmd.Flags().StringVar(&vectorizeModel, "model", "", "Model to encode with (default from config)")
	vectorizeCmd.Flags().IntVar(&vectorizeLayer, "layer", 0, "Single encoder layer to pool from (default from config)")
	vectorizeCmd.Flags().IntSliceVar(&vectorizeLayers, "layers", nil, "Encoder layers to pool across (enables word pooling)")
	vectorizeCmd.Flags().StringVar(&vectorizeWordPool, "word-pooling", "", "Word pooling method: average|max|concat")
	vectorizeCmd.Flags().StringVar(&vectorizeSentencePool, "sentence-pooling", "", "Sentence pooling method: average|max")
	vectorizeCmd.Flags().IntVar(&vectorizeMaxLen, "max-len", 0, "Token budget per document")
	vectorizeCmd.Flags().IntVar(&vectorizeBatchSize, "batch-size", 0, "Documents per forward pass")
	vectorizeCmd.Flags().StringVar(&vectorizeSave, "save", "", "Store the result as a named collection")
	vectorizeCmd.Flags().StringVar(&vectorizeOut, "out", "", "Also write the vectors to <out>text_vectors")
	vectorizeCmd.Flags().BoolVar(&vectorizeQuiet, "quiet", false, "Disable the progress bar")
}

func runVectorize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := loadDocuments(args[0])
	if err != nil {
		return err
	}

	v, desc, err := newVectorizer(cfg, vectorizeModel)
	if err != nil {
		return err
	}

	opts := optsFromConfig(cfg)
	if vectorizeLayer != 0 {
		opts.Layers = vectorizer.Layer(vectorizeLayer)
	}
	if len(vectorizeLayers) > 0 {
		opts.Layers = vectorizer.LayerList(vectorizeLayers...)
	}
	if vectorizeWordPool != "" {
		opts.WordPooling = vectorizeWordPool
	}
	if vectorizeSentencePool != "" {
		opts.SentencePooling = vectorizeSentencePool
	}
	if vectorizeMaxLen != 0 {
		opts.MaxLen = vectorizeMaxLen
	}
	if vectorizeBatchSize != 0 {
		opts.BatchSize = vectorizeBatchSize
	}
	opts.SavePath = vectorizeOut

	if !vectorizeQuiet {
		bar := progressbar.NewOptions(100,
			progressbar.OptionSetDescription("vectorizing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(pct int) { _ = bar.Set(pct) }
	}

	vectors, err := v.Vectorize(cmd.Context(), docs, opts)
	if err != nil {
		if vectors == nil {
			return err
		}
		// Save failed but the vectors are intact; report and keep going.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Printf("Encoded %d documents into %d-dimensional vectors (%s)\n",
		len(vectors), len(vectors[0]), desc.Name)

	if vectorizeSave != "" {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.SaveCollection(vectorizeSave, desc.Key, docs, vectors); err != nil {
			return err
		}
		fmt.Printf("Saved collection %q\n", vectorizeSave)
	}
	return nil
}

func optsFromConfig(cfg *config.Config) vectorizer.Options {
	opts := vectorizer.DefaultOptions()
	opts.MaxLen = cfg.Vectorize.MaxLen
	opts.BatchSize = cfg.Vectorize.BatchSize
	opts.Layers = vectorizer.Layer(cfg.Vectorize.Layer)
	opts.WordPooling = cfg.Vectorize.WordPooling
	opts.SentencePooling = cfg.Vectorize.SentencePooling
	return opts
}
