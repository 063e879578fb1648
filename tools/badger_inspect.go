package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"pair-lab/internal"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Offline dump of the session store while the server is stopped, e.g. to list
// orphaned provider resources:
//
//	go run ./tools -db ./data -prefix orphan:
//	go run ./tools -db ./data -prefix session: -type SESSION,INDEX
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "session:rec:", "Prefix to scan")
	types := flag.String("type", "", "Comma separated row types to keep (SESSION, ORPHAN, INDEX), empty keeps all")
	limit := flag.Int("limit", 0, "Maximum rows to print, 0 for no limit")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	keep := lo.Map(lo.Compact(strings.Split(*types, ",")), func(t string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(t))
	})
	rows, err := scan(db, []byte(*prefix), keep, *limit)
	if err != nil {
		log.Fatal("Error while scanning Badger: ", err)
	}
	render(os.Stdout, rows)
}

func scan(db *badger.DB, prefix []byte, keep []string, limit int) ([]database.InspectRow, error) {
	var rows []database.InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(rows) == limit {
				return nil
			}
			key := string(it.Item().Key())
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			row := internal.SessionMapper(key, val)
			if len(keep) > 0 && !lo.Contains(keep, row.Type) {
				continue
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, err
}

func render(w io.Writer, rows []database.InspectRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Type", "Created", "Entity ID", "Status", "Detail"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetTablePadding("\t")
	for _, row := range rows {
		table.Append([]string{row.Key, row.Type, row.Timestamp, row.EntityID, row.Namespace, row.Detail})
	}
	table.Render()

	counts := lo.CountValuesBy(rows, func(row database.InspectRow) string { return row.Type })
	kinds := lo.Keys(counts)
	sort.Strings(kinds)
	summary := lo.Map(kinds, func(kind string, _ int) string {
		return fmt.Sprintf("%s=%d", kind, counts[kind])
	})
	fmt.Fprintf(w, "\n%d rows (%s)\n", len(rows), strings.Join(summary, ", "))
}
