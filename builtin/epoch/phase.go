// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"fmt"
	"strings"
)

// Phase of an epoch. Every epoch passes Commit, Reveal and Dispute in that order.
type Phase uint8

const (
	Commit Phase = iota
	Reveal
	Dispute
)

func (p Phase) String() string {
	switch p {
	case Commit:
		return "commit"
	case Reveal:
		return "reveal"
	case Dispute:
		return "dispute"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(s) {
	case "commit":
		return Commit, nil
	case "reveal":
		return Reveal, nil
	case "dispute":
		return Dispute, nil
	}
	return 0, fmt.Errorf("invalid phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	v, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
