package sim

import (
	"encoding/json"
	"fmt"
)

// EncodeBot serializes a bot field-for-field to JSON, sufficient to
// reconstruct an identical bot. This is the manual-editing interchange
// format of the host boundary.
func EncodeBot(b Bot) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// DecodeBot parses a bot from its JSON form. Malformed data is a recoverable
// error reported to the caller; the import is simply refused and the engine
// never sees the value.
func DecodeBot(data []byte) (Bot, error) {
	var b Bot
	if err := json.Unmarshal(data, &b); err != nil {
		return Bot{}, fmt.Errorf("sim: decoding bot: %w", err)
	}
	if err := validateBot(&b); err != nil {
		return Bot{}, err
	}
	return b, nil
}

func validateBot(b *Bot) error {
	if b.Alive && b.Empty {
		return fmt.Errorf("sim: bot cannot be both alive and empty")
	}
	if b.Empty && b.Energy != 0 {
		return fmt.Errorf("sim: empty cell cannot carry energy")
	}
	if b.IP >= GenomeLength {
		return fmt.Errorf("sim: instruction pointer %d out of range [0,%d)", b.IP, GenomeLength)
	}
	return nil
}
