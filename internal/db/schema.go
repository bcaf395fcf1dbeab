package db

// tables.
const (
	tableSources  Table = "sources"
	tableLinks    Table = "links"
	tableTags     Table = "tags"
	tableLinkTags Table = "link_tags"
)

type Table = string

type Schema struct {
	Name  Table
	SQL   string
	Index []string
}

// tablesAndSchemas all tables and their schema, in creation order.
var tablesAndSchemas = []Schema{
	schemaSources,
	schemaLinks,
	schemaTags,
	schemaLinkTags,
}

var schemaSources = Schema{
	Name: tableSources,
	SQL: `
    CREATE TABLE IF NOT EXISTS sources (
        id          INTEGER PRIMARY KEY,
        name        TEXT    NOT NULL,
        prefix      TEXT,
        uri         TEXT    NOT NULL
    );`,
}

var schemaLinks = Schema{
	Name: tableLinks,
	SQL: `
    CREATE TABLE IF NOT EXISTS links (
        id          INTEGER PRIMARY KEY,
        name        TEXT    NOT NULL,
        url         TEXT    NOT NULL,
        visits      INTEGER NOT NULL DEFAULT 0 CHECK (visits >= 0),
        source_id   INTEGER REFERENCES sources(id)
    );`,
	Index: []string{
		`CREATE INDEX IF NOT EXISTS idx_links_source_id ON links(source_id);`,
	},
}

var schemaTags = Schema{
	Name: tableTags,
	SQL: `
    CREATE TABLE IF NOT EXISTS tags (
        id          INTEGER PRIMARY KEY,
        name        TEXT    NOT NULL UNIQUE
    );`,
}

var schemaLinkTags = Schema{
	Name: tableLinkTags,
	SQL: `
    CREATE TABLE IF NOT EXISTS link_tags (
        link_id     INTEGER NOT NULL,
        tag_id      INTEGER NOT NULL,
        FOREIGN KEY (link_id) REFERENCES links(id),
        FOREIGN KEY (tag_id) REFERENCES tags(id),
        PRIMARY KEY (link_id, tag_id)
    );`,
	Index: []string{
		`CREATE INDEX IF NOT EXISTS idx_link_tags_tag_id ON link_tags(tag_id);`,
	},
}
