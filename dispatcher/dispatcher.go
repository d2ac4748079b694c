// Package dispatcher is the MQTT transport collaborator: it owns the paho
// client, subscribes to every processor's source patterns, and drains a
// single ingress queue one message at a time so the core pipeline is never
// invoked concurrently with itself.
package dispatcher

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/bittoy/mqtt-processor/metrics"
	"github.com/bittoy/mqtt-processor/processor"
	"github.com/bittoy/mqtt-processor/types"
)

// inboundMessage is one item of the single ingress queue.
type inboundMessage struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

// Dispatcher pulls inbound messages off a single channel and runs every
// processor against each one, publishing whatever Messages come out.
type Dispatcher struct {
	client     mqtt.Client
	processors []*processor.Processor
	logger     kitlog.Logger

	queue chan inboundMessage
	done  chan struct{}
}

// Config holds the paho connection parameters the Dispatcher needs.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	ClientID string
}

// New builds a Dispatcher. It does not connect; call Run to connect,
// subscribe, and start draining.
func New(cfg Config, processors []*processor.Processor, logger kitlog.Logger) *Dispatcher {
	d := &Dispatcher{
		processors: processors,
		logger:     logger,
		queue:      make(chan inboundMessage, 256),
		done:       make(chan struct{}),
	}

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetOnConnectHandler(d.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			level.Error(d.logger).Log("msg", "mqtt connection lost", "err", err)
		})

	d.client = mqtt.NewClient(opts)
	return d
}

// Subscriptions returns the union, in processor/source declaration order,
// of every source pattern's MQTT subscription form.
func (d *Dispatcher) Subscriptions() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, p := range d.processors {
		for _, single := range p.Singles {
			sub := single.Source.ToSubscriptionForm()
			if _, ok := seen[sub]; ok {
				continue
			}
			seen[sub] = struct{}{}
			out = append(out, sub)
		}
	}
	return out
}

// Run connects to the broker and blocks draining the ingress queue until
// Stop is called.
func (d *Dispatcher) Run() error {
	token := d.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to mqtt broker: %w", err)
	}

	for {
		select {
		case <-d.done:
			return nil
		case msg := <-d.queue:
			d.handle(msg)
		}
	}
}

// Stop disconnects from the broker and stops draining.
func (d *Dispatcher) Stop() {
	close(d.done)
	d.client.Disconnect(250)
}

func (d *Dispatcher) onConnect(client mqtt.Client) {
	for _, sub := range d.Subscriptions() {
		sub := sub
		token := client.Subscribe(sub, 1, func(_ mqtt.Client, m mqtt.Message) {
			d.queue <- inboundMessage{
				topic:   m.Topic(),
				payload: m.Payload(),
				qos:     m.Qos(),
				retain:  m.Retained(),
			}
		})
		token.Wait()
		if err := token.Error(); err != nil {
			level.Error(d.logger).Log("msg", "subscribe failed", "topic", sub, "err", err)
		}
	}
}

// handle runs every processor against the message in order, and publishes
// every resulting Message with the inbound message's QoS and retain flag.
func (d *Dispatcher) handle(msg inboundMessage) {
	for _, p := range d.processors {
		start := time.Now()
		out := p.Process(msg.topic, msg.payload)
		metrics.ChainDuration.WithLabelValues(p.Name).Observe(time.Since(start).Seconds())

		result := "dropped"
		if len(out) > 0 {
			result = "published"
		}
		metrics.MessagesTotal.WithLabelValues(p.Name, result).Inc()

		for _, m := range out {
			d.publish(m, msg.qos, msg.retain)
		}
	}
}

func (d *Dispatcher) publish(m types.Message, qos byte, retain bool) {
	if m.Sink == nil {
		return
	}
	token := d.client.Publish(m.Sink.String(), qos, retain, m.Body)
	token.Wait()
	if err := token.Error(); err != nil {
		level.Error(d.logger).Log("msg", "publish failed", "topic", m.Sink.String(), "err", err)
	}
}
