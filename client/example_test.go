package client_test

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cyphera/delegation-server/client"
)

// Redeem a single delegation against a local delegation server.
func ExampleDelegationClient_RedeemDelegation() {
	delegationClient, err := client.NewDelegationClient(client.Config{
		ServerAddr:   "localhost:50051",
		UseLocalMode: true,
	}, zap.NewNop())
	if err != nil {
		log.Printf("Failed to create delegation client: %v", err)
		return
	}
	defer delegationClient.Close()

	// In a real application the signed delegation comes from the customer's
	// wallet at checkout time.
	delegation := map[string]interface{}{
		"delegate":  "0x1234567890123456789012345678901234567890",
		"delegator": "0x0987654321098765432109876543210987654321",
		"caveats":   []map[string]interface{}{},
		"salt":      "0x123456789",
		"signature": "0xabcdef1234567890",
	}
	signature, err := json.Marshal(delegation)
	if err != nil {
		log.Printf("Failed to serialize delegation: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	txHash, err := delegationClient.RedeemDelegation(ctx, signature, client.ExecutionObject{
		MerchantAddress:      "0x9999999999999999999999999999999999999999",
		TokenContractAddress: "0x5555555555555555555555555555555555555555",
		TokenAmount:          1500000, // 1.50 USDC in smallest units
		TokenDecimals:        6,
		ChainID:              11155111,
		NetworkName:          "sepolia",
	})
	if err != nil {
		log.Printf("Failed to redeem delegation: %v", err)
		return
	}

	log.Printf("Delegation redeemed, transaction hash: %s", txHash)
}

// Process redemptions asynchronously through the worker pool.
func ExampleRedemptionProcessor() {
	logger := zap.NewNop()

	delegationClient, err := client.NewDelegationClient(client.Config{
		ServerAddr:   "localhost:50051",
		UseLocalMode: true,
	}, logger)
	if err != nil {
		log.Printf("Failed to create delegation client: %v", err)
		return
	}
	defer delegationClient.Close()

	processor := client.NewRedemptionProcessor(delegationClient, func(result client.RedemptionResult) {
		if result.Err != nil {
			log.Printf("Redemption %s failed: %v", result.TaskID, result.Err)
			return
		}
		log.Printf("Redemption %s confirmed: %s", result.TaskID, result.TransactionHash)
	}, logger, 4, 64)

	processor.Start()
	defer processor.Stop()

	err = processor.QueueRedemption(client.RedemptionTask{
		TaskID:    "invoice-0001",
		Signature: []byte(`{"delegate":"0x1234567890123456789012345678901234567890"}`),
		Execution: client.ExecutionObject{
			MerchantAddress:      "0x9999999999999999999999999999999999999999",
			TokenContractAddress: "0x5555555555555555555555555555555555555555",
			TokenAmount:          1500000,
			TokenDecimals:        6,
			ChainID:              11155111,
			NetworkName:          "sepolia",
		},
	})
	if err != nil {
		log.Printf("Failed to queue redemption: %v", err)
	}
}
