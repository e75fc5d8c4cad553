package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avdeyev/SettlementKeeper/internal/client/storage"
	"github.com/avdeyev/SettlementKeeper/internal/client/sync"
	"github.com/avdeyev/SettlementKeeper/internal/config"
	"github.com/avdeyev/SettlementKeeper/internal/logger"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

var (
	version   string
	buildDate string
)

// promptDecision presents the three-way conflict choice on stdin and
// blocks until the user answers.
func promptDecision(_ context.Context, local, remote []models.Settlement) (sync.Decision, error) {
	fmt.Printf("Your device and the cloud disagree: %d settlement(s) here, %d in the cloud.\n",
		len(local), len(remote))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Choose [keep-local / use-cloud / cancel]: ")
		if !scanner.Scan() {
			return sync.DecisionCancel, nil
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "keep-local":
			return sync.DecisionKeepLocal, nil
		case "use-cloud":
			return sync.DecisionUseCloud, nil
		case "cancel":
			return sync.DecisionCancel, nil
		}
		fmt.Println("Please answer keep-local, use-cloud, or cancel.")
	}
}

// repl runs the interactive shell loop, accepting commands to manage
// settlements and survivors.
func repl(ls *storage.LocalStorage, sctx *sync.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("settlementkeeper> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Commands: help, settlements, new, use <id>, party, add, " +
				"promote <survivorID> <slot>, bench <slot>, retire <survivorID>, " +
				"kill <survivorID>, status, export <file>, import <file>, exit")
		case "settlements":
			for _, s := range ls.Settlements() {
				fmt.Printf("%s  %s (reserve %d, retired %d, removed %d)\n",
					s.ID, s.Name, len(s.Reserve), len(s.Retired), len(s.Removed))
			}
		case "new":
			name := storage.PromptForSettlementName()
			if name == "" {
				fmt.Println("Settlement needs a name")
				continue
			}
			s := ls.CreateSettlement(name)
			fmt.Printf("Created %s (%s)\n", s.Name, s.ID)
		case "use":
			if len(args) < 2 {
				fmt.Println("Usage: use <id>")
				continue
			}
			if !ls.SetActive(args[1]) {
				fmt.Println("Settlement not found")
			}
		case "party":
			s := ls.Active()
			if s == nil {
				fmt.Println("No active settlement")
				continue
			}
			for i, p := range s.Party {
				if p == nil {
					fmt.Printf("slot %d: (empty)\n", i)
				} else {
					fmt.Printf("slot %d: %s (%s)\n", i, p.Name, p.ID)
				}
			}
			for _, sv := range s.Reserve {
				fmt.Printf("reserve: %s (%s)\n", sv.Name, sv.ID)
			}
		case "add":
			s := ls.Active()
			if s == nil {
				fmt.Println("No active settlement")
				continue
			}
			name, gender := storage.PromptForSurvivor()
			if name == "" {
				fmt.Println("Survivor needs a name")
				continue
			}
			sv, _ := ls.AddSurvivor(s.ID, name)
			if gender != "" {
				ls.UpdateSurvivor(s.ID, sv.ID, func(s *models.Survivor) { s.Gender = gender })
			}
			fmt.Printf("Added %s (%s)\n", sv.Name, sv.ID)
		case "promote":
			if len(args) < 3 {
				fmt.Println("Usage: promote <survivorID> <slot>")
				continue
			}
			s := ls.Active()
			if s == nil {
				fmt.Println("No active settlement")
				continue
			}
			slot, err := strconv.Atoi(args[2])
			if err != nil || !ls.PromoteToParty(s.ID, slot, args[1]) {
				fmt.Println("Cannot promote: check the survivor ID and slot")
			}
		case "bench":
			if len(args) < 2 {
				fmt.Println("Usage: bench <slot>")
				continue
			}
			s := ls.Active()
			if s == nil {
				fmt.Println("No active settlement")
				continue
			}
			slot, err := strconv.Atoi(args[1])
			if err != nil || !ls.ReturnToReserve(s.ID, slot) {
				fmt.Println("Nothing to bench in that slot")
			}
		case "retire":
			if len(args) < 2 {
				fmt.Println("Usage: retire <survivorID>")
				continue
			}
			s := ls.Active()
			if s == nil || !ls.RetireSurvivor(s.ID, args[1]) {
				fmt.Println("Survivor not found")
			}
		case "kill":
			if len(args) < 2 {
				fmt.Println("Usage: kill <survivorID>")
				continue
			}
			s := ls.Active()
			if s == nil || !ls.RemoveSurvivor(s.ID, args[1]) {
				fmt.Println("Survivor not found")
			}
		case "status":
			if t := sctx.LastSyncedAt(); t.IsZero() {
				fmt.Println("Not synced yet this session")
			} else {
				fmt.Printf("Last synced at %s\n", t.Format(time.RFC3339))
			}
			fmt.Printf("Pending changes: local=%v cloud=%v\n", sctx.LocalDirty(), sctx.RemoteDirty())
		case "export":
			if len(args) < 2 {
				fmt.Println("Usage: export <file>")
				continue
			}
			f, err := os.Create(args[1])
			if err != nil {
				fmt.Println("Cannot create file:", err)
				continue
			}
			if err := ls.Export(f); err != nil {
				fmt.Println("Export failed:", err)
			}
			f.Close()
		case "import":
			if len(args) < 2 {
				fmt.Println("Usage: import <file>")
				continue
			}
			f, err := os.Open(args[1])
			if err != nil {
				fmt.Println("Cannot open file:", err)
				continue
			}
			if err := ls.Import(f); err != nil {
				fmt.Println("Import failed:", err)
			} else {
				fmt.Println("Imported")
			}
			f.Close()
		case "exit":
			if err := ls.Flush(); err != nil {
				fmt.Println("Warning: could not save:", err)
			}
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	options := config.Parse()

	zlog := logger.New()
	if err := zlog.Init("Warn"); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Log.Sync() }()

	if options.Login == "" {
		fmt.Printf("SettlementKeeper Client\nVersion: %s\nBuild Date: %s\n",
			version, buildDate)
		log.Fatal("please provide -login=account (and -token for cloud sync)")
	}

	var backend storage.Backend
	var err error
	switch options.StorageDriver {
	case "sqlite":
		backend, err = storage.NewSQLiteBackend(options.StoragePath)
	default:
		backend = storage.NewFileBackend(options.StoragePath)
	}
	if err != nil {
		log.Fatal(err)
	}

	sctx := sync.NewContext()
	ls, err := storage.Open(backend, sctx, zlog.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer ls.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpClient := &http.Client{Timeout: 15 * time.Second}
	client := sync.NewClient(httpClient, options.BaseURL, options.Token)

	if options.Token != "" {
		resolver := sync.NewResolver(sctx, ls, client, promptDecision, zlog.Log)
		if err := resolver.LoginSync(ctx, options.Login); err != nil {
			fmt.Println("Cloud data not loaded yet:", err)
		}
	}

	scheduler := sync.NewScheduler(sctx, ls, client, options.Login,
		options.LocalFlushInterval(), options.RemoteFlushInterval(), zlog.Log)
	scheduler.Start(ctx)

	repl(ls, sctx)
}
