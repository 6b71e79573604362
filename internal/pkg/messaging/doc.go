// Package messaging publishes and consumes domain events over a pluggable
// broker (NATS, NSQ, Kafka or Google Pub/Sub).
//
// Use cases depend on the Messaging interface only. Handlers returning nil
// acknowledge the message; a non-nil error asks the broker to redeliver it
// where the broker supports redelivery.
package messaging
