package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"placefacts/internal/config"
	"placefacts/internal/env"
	"placefacts/internal/lookup"
	"placefacts/internal/service"
	"placefacts/pkg/graceful"
	"placefacts/pkg/kafkaclient"
)

func main() {
	env.LoadEnv()
	cfg := config.FromEnv()
	cfg.Log.Configure(log.StandardLogger())

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	if !cfg.Kafka.Enabled() {
		log.Fatal("KAFKA_BROKER and KAFKA_TOPIC must be set")
	}
	log.WithFields(log.Fields{
		"broker":   cfg.Kafka.Broker,
		"topic":    cfg.Kafka.Topic,
		"group_id": cfg.Kafka.GroupID,
	}).Info("Connecting to Kafka")

	consumer, err := kafkaclient.NewKafkaConsumer(cfg.Kafka.Topic, cfg.Kafka.GroupID, cfg.Kafka.Broker)
	if err != nil {
		log.WithError(err).Fatal("Failed to create kafka consumer")
	}

	consumer.StartConsuming(ctx)
	iterator := service.NewIterator(consumer, service.JSON[lookup.Event]())

	t := newTally()
	for obj := range iterator.Objects(ctx) {
		t.add(obj.Data)
		fmt.Fprintln(os.Stdout, t.line(obj.Data))
	}

	consumer.Stop()
	t.print(os.Stdout)
	log.Info("Insights consumer finished")
}
