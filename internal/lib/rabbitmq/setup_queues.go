package rabbitmq

// MailExchange is the direct exchange all mail jobs pass through.
const MailExchange = "mail"

// MailRoutingKey routes jobs into the outbound queue.
const MailRoutingKey = "outbound"

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

func GetMailQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "mail.outbound", RoutingKey: MailRoutingKey},
	}
}
