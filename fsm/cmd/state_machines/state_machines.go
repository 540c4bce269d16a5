package main

import (
	"fmt"
	"log"

	"github.com/docstacker/docsign/fsm/fsm"
	"github.com/docstacker/docsign/fsm/state_machines"
	"github.com/docstacker/docsign/types"
)

// Prints the session machines in DOT format:
//
//	go run ./fsm/cmd/state_machines | dot -Tsvg -o machines.svg
func main() {
	instance := state_machines.New("graph")

	roster := []types.Signer{{ID: "signer_a", Name: "A"}, {ID: "signer_b", Name: "B"}}
	var fields []types.SignatureField
	for _, signer := range roster {
		fields = append(fields, types.SignatureField{
			ID:         "field_" + signer.ID,
			FieldType:  types.FieldSignature,
			SignerRole: signer.ID,
		})
	}
	if err := instance.StartSequence(roster, fields); err != nil {
		log.Fatalf("failed to start signing sequence: %v", err)
	}

	for _, machine := range instance.Machines() {
		fmt.Print(fsm.Visualize(machine))
	}
}
