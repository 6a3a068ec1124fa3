package kafka

var Consume = consume
