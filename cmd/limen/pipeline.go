package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"limen-hq/limen/pkg/audit"
	"limen-hq/limen/pkg/compiler"
	"limen-hq/limen/pkg/config"
	"limen-hq/limen/pkg/policy"
	"limen-hq/limen/pkg/provision"
	"limen-hq/limen/pkg/telemetry/metrics"
)

// pipeline ties the pure compiler to its collaborators: policy loading,
// audit recording, provisioning and metrics. The compiler itself stays
// free of all of this; the pipeline owns the I/O.
type pipeline struct {
	cfg       *config.Config
	prov      *provision.Provisioner
	store     *audit.Store       // nil when auditing is disabled
	collector *metrics.Collector // nil outside run mode
}

func newPipeline(cfg *config.Config, store *audit.Store, collector *metrics.Collector) *pipeline {
	provCfg := &provision.Config{
		ConfDir:       cfg.Httpd.ConfDir,
		AuthFileName:  cfg.Httpd.AuthFile,
		LimitFileName: cfg.Httpd.LimitFile,
		FileMode:      cfg.Httpd.Mode(),
		Owner:         cfg.Httpd.Owner,
		Group:         cfg.Httpd.Group,
		Server: provision.Server{
			ListenPort:   cfg.Httpd.ListenPort,
			ProxyPort:    cfg.Httpd.ProxyPort,
			CipherSuite:  cfg.Httpd.CipherSuite,
			TLSProtocols: cfg.Httpd.TLSProtocols,
			VerifyClient: cfg.Httpd.VerifyClient,
			VerifyDepth:  cfg.Httpd.VerifyDepth,
		},
	}
	return &pipeline{
		cfg:       cfg,
		prov:      provision.New(provCfg, slog.Default()),
		store:     store,
		collector: collector,
	}
}

// loadOverride reads the policy override document. A missing file is not
// an error: it means "defaults only".
func loadOverride(path string) (policy.Document, error) {
	doc, err := policy.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info("policy document not found, using defaults only", "path", path)
			return policy.Document{}, nil
		}
		return nil, err
	}
	return doc, nil
}

// compileOnce runs one full pass: load, merge, validate, compile,
// provision. Every attempt is audited; a validation failure writes
// nothing to the conf dir.
func (p *pipeline) compileOnce(ctx context.Context) (*provision.Result, error) {
	start := time.Now()

	override, err := loadOverride(p.cfg.Policy.Path)
	if err != nil {
		return nil, err
	}
	merged := policy.Merge(policy.DefaultDocument(), override)

	out, err := compiler.CompileMerged(merged)
	if err != nil {
		var verr *policy.ValidationError
		if errors.As(err, &verr) {
			p.recordRejection(ctx, merged, verr)
		}
		return nil, err
	}

	res, err := p.prov.Apply(ctx, out)
	if err != nil {
		return nil, err
	}

	p.recordCompile(ctx, merged, out, res, time.Since(start))
	return res, nil
}

func (p *pipeline) recordCompile(ctx context.Context, merged policy.Document, out *compiler.Output, res *provision.Result, elapsed time.Duration) {
	if p.store != nil {
		if err := p.store.Append(ctx, audit.NewCompiledRecord(merged, out)); err != nil {
			slog.Error("failed to append audit record", "error", err)
		}
	}
	if p.collector != nil {
		p.collector.RecordCompile(elapsed,
			strings.Count(out.AuthBlock, "\n"),
			strings.Count(out.LimitBlock, "\n"),
			res.LimitFallback,
		)
	}
}

func (p *pipeline) recordRejection(ctx context.Context, merged policy.Document, verr *policy.ValidationError) {
	if p.store != nil {
		if err := p.store.Append(ctx, audit.NewRejectedRecord(merged, verr)); err != nil {
			slog.Error("failed to append audit record", "error", err)
		}
	}
	if p.collector != nil {
		p.collector.RecordRejection(verr.Field)
	}
}

// openAuditStore opens the audit store when enabled; nil otherwise.
func openAuditStore(cfg *config.Config) (*audit.Store, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}
	return audit.Open(&audit.StoreConfig{Path: cfg.Audit.Path})
}
