package config

import "path/filepath"

type Flags struct {
	Name    string   // Database name
	Copy    bool     // Copy URL into clipboard
	Tags    []string // Tags list to filter links
	Source  int64    // Source ID to filter links
	Sort    string   // Sort order
	Top     int      // Page size
	JSON    bool     // JSON output
	Count   bool     // Tag counters
	Force   bool     // Force action
	Dump    bool     // Dump config file
	Verbose int      // Verbose flag
}

// App is the default application configuration.
var App = &AppConfig{
	Name:   appName,
	Cmd:    command,
	DBName: MainDBName,
	Flags:  &Flags{},
	File:   Defaults(),
	Info: information{
		URL:     "https://github.com/mateconpizza/llyfrau#readme",
		Title:   "llyfrau: a catalog of links",
		Desc:    "Keep documentation links and bookmarks searchable from the terminal",
		Version: version,
	},
	Env: environment{
		Home: "LLYFRAU_HOME",
	},
}

// SetAppPaths sets the app data path.
func SetAppPaths(p string) {
	App.Path.Data = p
	App.Path.ConfigFile = filepath.Join(p, configFilename)
}

// SetDBName selects the database file inside the data path.
func SetDBName(name string) {
	App.DBName = name
	App.DBPath = filepath.Join(App.Path.Data, name)
}
