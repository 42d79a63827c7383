// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/thor-oracle/log"
	"github.com/vechain/thor-oracle/metrics"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(verbosity int) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	log.Init(os.Stderr, verbosity, useColor)
}

// loadBeaconKey parses the configured hex key, or loads the key file, generating it when missing.
// Without either, an ephemeral key is generated.
func loadBeaconKey(cfg *BeaconConfig) (*ecdsa.PrivateKey, error) {
	if cfg.Key != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Key, "0x"))
		if err != nil {
			return nil, errors.WithMessage(err, "beacon key")
		}
		return key, nil
	}

	if cfg.KeyFile == "" {
		return crypto.GenerateKey()
	}

	key, err := crypto.LoadECDSA(cfg.KeyFile)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, errors.WithMessage(err, "load beacon key")
	}

	// no such file, generate new key and write in
	if key, err = crypto.GenerateKey(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.KeyFile), 0o700); err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(cfg.KeyFile, key); err != nil {
		return nil, errors.WithMessage(err, "save beacon key")
	}
	return key, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// startServer serves handler on addr until the returned stop func is called.
func startServer(name, addr string, handler http.Handler) (net.Addr, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	return listener.Addr(), func() {
		srv.Close()
		if err := g.Wait(); err != nil {
			log.Warn("server exited", "server", name, "err", err)
		}
	}, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	laddr, stop, err := startServer("API", addr, handler)
	if err != nil {
		return "", nil, err
	}
	return "http://" + laddr.String() + "/", stop, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	laddr, stop, err := startServer("metrics", addr, handlers.CompressHandler(router))
	if err != nil {
		return "", nil, err
	}
	return "http://" + laddr.String() + "/metrics", stop, nil
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.oracle")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.oracle")
		default:
			return filepath.Join(home, ".org.vechain.oracle")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
