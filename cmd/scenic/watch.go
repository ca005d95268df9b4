package main

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Re-check .scn files whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		for _, dir := range args {
			if err := watcher.Add(dir); err != nil {
				return err
			}
			log.Printf("watching %s", dir)
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if filepath.Ext(event.Name) != ".scn" {
					continue
				}
				if err := checkFile(event.Name); err != nil {
					log.Printf("%s: syntax error", event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("watch error: %v", err)
			}
		}
	},
}
