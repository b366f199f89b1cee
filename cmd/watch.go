package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 300 * time.Millisecond

var watchOpts = analyzeOptions{recursive: true}

var watchCmd = &cobra.Command{
	Use:   "watch <diretório>",
	Short: "Reanalisa o diretório sempre que um resultado de engine muda",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		root := args[0]

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()
		if err := addWatchRecursive(watcher, root); err != nil {
			return err
		}

		trigger := func() {
			r, err := runAnalysis(ctx, root, watchOpts)
			if err != nil {
				logging.Logger.Errorw("Erro na análise", "erro", err)
				return
			}
			if err := writeReport(cmd.OutOrStdout(), r, watchOpts.output); err != nil {
				logging.Logger.Errorw("Erro ao gerar relatório", "erro", err)
			}
		}
		trigger()

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !relevant(ev) {
					continue
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
						_ = addWatchRecursive(watcher, ev.Name)
					}
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, trigger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logging.Logger.Warnw("erro no watch", "erro", err)
			}
		}
	},
}

// relevant ignora o diretório de saída, que o próprio scan reescreve.
func relevant(ev fsnotify.Event) bool {
	if strings.Contains(ev.Name, string(filepath.Separator)+cfg.OutputDir+string(filepath.Separator)) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".json", ".html", ".yaml", ".yml":
		return true
	}
	return false
}

func addWatchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}

func init() {
	watchCmd.Flags().StringVar(&watchOpts.htmlPath, "html", "", "Snapshot HTML da página para extrair diagnósticos")
	watchCmd.Flags().StringVar(&watchOpts.pageURL, "url", "", "URL da página analisada")
	watchCmd.Flags().StringVar(&watchOpts.checksPath, "checks", "", "YAML com respostas das verificações semi-automáticas")
	watchCmd.Flags().StringVarP(&watchOpts.output, "output", "o", "text", "Formato da saída (json, markdown, sarif, text)")
	rootCmd.AddCommand(watchCmd)
}
