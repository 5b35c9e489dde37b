package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	devenv "brotherowl-backend/dev/env"
	"brotherowl-backend/lib/spystore"
)

const spyStorePath = "<dev_state>/spies.db"

func CreateSpyStore() error {
	path, err := devenv.ResolvePath(spyStorePath)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("spy store already created at", path)
		return nil
	}

	fmt.Println("creating spy store at", path)
	store, err := spystore.OpenSQL(spyStorePath)
	if err != nil {
		return err
	}
	return store.Close()
}

const defaultConfig = `{
    tornstats: {
        // or set TORNSTATS_API_KEY in .env
        api_key: "",
    },
    spy_store: "<dev_state>/spies.db",
    watch_interval_seconds: 300,
}
`

// WriteDefaultConfig writes owlstats.json5 unless one exists already.
func WriteDefaultConfig() error {
	_, err := os.Stat("owlstats.json5")
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Println("writing owlstats.json5")
	return os.WriteFile("owlstats.json5", []byte(defaultConfig), 0644)
}

func PrintConfigLocations() {
	slog.Info("put your TornStats key in owlstats.local.json5 or .env (TORNSTATS_API_KEY), telemetry export is configured through telemetry.json5.")
}
