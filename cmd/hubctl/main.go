package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/config"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/doc"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/drafts"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/export"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/hub"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/mirror"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/moderation"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/notify"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/search"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/tree"
	"github.com/ArjunDangle/RAK-Knowledge-Hub-sub000/internal/upload"
)

const usage = `usage: hubctl <command> [args]

commands:
  tree <node-id>                     show a node and its children
  search <query>                     full-text article search
  approve|reject|delete <id>...      bulk moderation actions
  upload <file>...                   upload files, print references
  drafts list                        list local drafts
  drafts import <file.html> [-title] import legacy HTML as a draft
  drafts show <draft-id>             print a draft as HTML
  drafts rm <draft-id>               delete a draft
  drafts export <draft-id> [-format markdown|pdf] [-out path]
  mirror push <draft-id>             commit a draft's markdown to the mirror
  mirror log [-n limit]              show mirror history
  shell [root-id]                    interactive moderation shell
`

type services struct {
	cfg     config.Config
	client  *hub.Client
	loader  *tree.Loader
	search  *search.Service
	notify  *notify.Center
	drafts  *drafts.Store
	mirror  *mirror.Service
	uploads *upload.Manager

	closers []func()
}

func (s *services) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// hubFallback adapts the hub API's search endpoint to the search fallback
// interface.
type hubFallback struct {
	client *hub.Client
}

func (f hubFallback) Search(ctx context.Context, q search.Query) ([]search.Result, int, error) {
	hits, err := f.client.Search(ctx, q.Text, q.Limit)
	if err != nil {
		return nil, 0, err
	}
	results := make([]search.Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, search.Result{ID: hit.ID, Title: hit.Title, Snippet: hit.Snippet})
	}
	return results, len(results), nil
}

func buildServices(cfg config.Config) (*services, error) {
	s := &services{
		cfg:    cfg,
		client: hub.NewClient(cfg.HubURL, hub.WithToken(cfg.HubToken)),
		notify: notify.NewCenter(notify.DefaultTTL),
	}

	var cache tree.CacheStore
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for the tree cache")
		redisStore, err := tree.NewRedisStore(cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		s.closers = append(s.closers, func() { redisStore.Close() })
		cache = redisStore
	} else {
		cache = tree.NewMemoryStore(cfg.CacheTTL)
	}
	s.loader = tree.NewLoader(s.client, cache)

	var engine search.Searcher
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient := search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		s.closers = append(s.closers, meiliClient.Close)
		engine = meiliClient
	}
	s.search = search.NewService(engine, hubFallback{client: s.client})

	var backend upload.Backend = s.client
	if strings.TrimSpace(cfg.S3Endpoint) != "" {
		s3, err := upload.NewS3Backend(upload.S3Config{
			Endpoint:   cfg.S3Endpoint,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Bucket:     cfg.S3Bucket,
			UseSSL:     cfg.S3UseSSL,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 connection failed: %w", err)
		}
		backend = s3
	}
	s.uploads = upload.NewManager(backend)

	if err := os.MkdirAll(filepath.Dir(cfg.DraftsDB), 0o755); err != nil {
		return nil, fmt.Errorf("create drafts dir: %w", err)
	}
	draftStore, err := drafts.Open(cfg.DraftsDB)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, func() { draftStore.Close() })
	s.drafts = draftStore

	s.mirror = mirror.New(cfg.MirrorDir)
	return s, nil
}

func (s *services) moderationService() *moderation.Service {
	role := moderation.Normalize(s.cfg.Role)
	return moderation.NewService(role, s.client, s.client, s.loader, s.notify, s.search)
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(getenv("HUB_CONFIG", "hubctl.yaml"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	svc, err := buildServices(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer svc.close()

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "tree":
		err = cmdTree(ctx, svc, args)
	case "search":
		err = cmdSearch(ctx, svc, args)
	case "approve", "reject", "delete":
		err = cmdModerate(ctx, svc, cmd, args)
	case "upload":
		err = cmdUpload(ctx, svc, args)
	case "drafts":
		err = cmdDrafts(ctx, svc, args)
	case "mirror":
		err = cmdMirror(ctx, svc, args)
	case "shell":
		err = runShell(ctx, svc, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func cmdTree(ctx context.Context, svc *services, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hubctl tree <node-id>")
	}
	node, err := svc.client.Node(ctx, args[0])
	if err != nil {
		return err
	}
	if node == nil {
		fmt.Printf("node %s not found\n", args[0])
		return nil
	}
	fmt.Printf("%s  %s\n", node.ID, node.Title)
	children, err := svc.loader.Children(ctx, *node)
	if err != nil {
		return err
	}
	for _, child := range children {
		marker := " "
		if child.HasChildren {
			marker = "+"
		}
		fmt.Printf("  %s %s  %s\n", marker, child.ID, child.Title)
	}
	return nil
}

func cmdSearch(ctx context.Context, svc *services, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: hubctl search <query>")
	}
	resp := svc.search.Search(ctx, search.Query{Text: strings.Join(args, " "), Limit: 20})
	fmt.Printf("%d result(s) for %q\n", resp.Total, resp.Query)
	for _, r := range resp.Results {
		fmt.Printf("  %s  %s\n", r.ID, r.Title)
		if r.Snippet != "" {
			fmt.Printf("      %s\n", r.Snippet)
		}
	}
	return nil
}

func cmdModerate(ctx context.Context, svc *services, verb string, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("usage: hubctl %s <id>...", verb)
	}
	mod := svc.moderationService()
	var result moderation.BulkResult
	var err error
	switch verb {
	case "approve":
		result, err = mod.Approve(ctx, ids)
	case "reject":
		result, err = mod.Reject(ctx, ids)
	case "delete":
		result, err = mod.Delete(ctx, ids)
	}
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d succeeded, %d failed\n", verb, len(result.Succeeded), len(result.Failed))
	for id, ferr := range result.Failed {
		fmt.Printf("  %s: %v\n", id, ferr)
	}
	return nil
}

func cmdUpload(ctx context.Context, svc *services, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: hubctl upload <file>...")
	}
	files := make([]upload.File, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, upload.File{
			Name: filepath.Base(path),
			MIME: mimeForPath(path),
			Data: data,
		})
	}
	refs, errs := svc.uploads.UploadAll(ctx, files)
	for i, f := range files {
		if errs[i] != nil {
			fmt.Printf("%s: FAILED: %v\n", f.Name, errs[i])
			continue
		}
		fmt.Printf("%s: %s  %s\n", f.Name, refs[i].TempID, refs[i].URL)
	}
	return nil
}

func cmdDrafts(ctx context.Context, svc *services, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: hubctl drafts <list|import|show|rm|export> ...")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		list, err := svc.drafts.List(ctx)
		if err != nil {
			return err
		}
		for _, d := range list {
			fmt.Printf("%s  %s  %s\n", d.ID, d.UpdatedAt.Format(time.RFC3339), d.Title)
		}
		return nil
	case "import":
		fs := flag.NewFlagSet("drafts import", flag.ContinueOnError)
		title := fs.String("title", "", "draft title")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: hubctl drafts import <file.html> [-title t]")
		}
		data, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			return err
		}
		body, err := doc.ParseHTML(string(data))
		if err != nil {
			return err
		}
		draft := drafts.Draft{
			ID:    uuid.NewString(),
			Title: *title,
			Body:  body,
		}
		if draft.Title == "" {
			draft.Title = strings.TrimSuffix(filepath.Base(fs.Arg(0)), filepath.Ext(fs.Arg(0)))
		}
		if err := svc.drafts.Save(ctx, draft); err != nil {
			return err
		}
		fmt.Printf("imported draft %s (%s)\n", draft.ID, draft.Title)
		return nil
	case "show":
		if len(rest) != 1 {
			return fmt.Errorf("usage: hubctl drafts show <draft-id>")
		}
		d, err := svc.drafts.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Println(doc.RenderHTML(d.Body))
		return nil
	case "rm":
		if len(rest) != 1 {
			return fmt.Errorf("usage: hubctl drafts rm <draft-id>")
		}
		return svc.drafts.Delete(ctx, rest[0])
	case "export":
		return cmdDraftsExport(ctx, svc, rest)
	default:
		return fmt.Errorf("unknown drafts subcommand %q", sub)
	}
}

func cmdDraftsExport(ctx context.Context, svc *services, args []string) error {
	fs := flag.NewFlagSet("drafts export", flag.ContinueOnError)
	format := fs.String("format", "markdown", "markdown or pdf")
	out := fs.String("out", "", "output path (default: derived filename)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: hubctl drafts export <draft-id> [-format f] [-out path]")
	}
	d, err := svc.drafts.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	result, err := export.NewService().Export(export.Article{
		ID:        d.ID,
		Title:     d.Title,
		UpdatedAt: d.UpdatedAt,
		Body:      d.Body,
	}, export.Format(*format))
	if err != nil {
		return err
	}
	path := *out
	if path == "" {
		path = result.Filename
	}
	if err := os.WriteFile(path, result.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(result.Data))
	return nil
}

func cmdMirror(ctx context.Context, svc *services, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: hubctl mirror <push|log> ...")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "push":
		if len(rest) != 1 {
			return fmt.Errorf("usage: hubctl mirror push <draft-id>")
		}
		d, err := svc.drafts.Get(ctx, rest[0])
		if err != nil {
			return err
		}
		result, err := export.NewService().Export(export.Article{
			ID:    d.ID,
			Title: d.Title,
			Body:  d.Body,
		}, export.FormatMarkdown)
		if err != nil {
			return err
		}
		info, err := svc.mirror.WriteArticle(d.ID, result.Data, svc.cfg.Role, "Mirror "+d.Title)
		if err != nil {
			return err
		}
		fmt.Printf("committed %s as %s\n", d.ID, info.Hash)
		return nil
	case "log":
		fs := flag.NewFlagSet("mirror log", flag.ContinueOnError)
		limit := fs.Int("n", 10, "number of commits")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		history, err := svc.mirror.History(*limit)
		if err != nil {
			return err
		}
		for _, info := range history {
			fmt.Printf("%s  %s  %s  %s\n", info.Hash, info.CreatedAt.Format("2006-01-02 15:04"),
				info.Author, strings.SplitN(info.Message, "\n", 2)[0])
		}
		return nil
	default:
		return fmt.Errorf("unknown mirror subcommand %q", sub)
	}
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// printJSON is used by the shell for raw dumps.
func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("encode output: %v", err)
		return
	}
	fmt.Println(string(data))
}
