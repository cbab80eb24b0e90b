/*
Package btcore implements the typed-value and port contract shared by the
behavior tree runtime, its tree loader and its blackboard.

# Ports

A node type declares its ports by implementing [PortsProvider] on its zero
value. Each [PortInfo] carries a direction, a type identity and, for strongly
typed ports, a [StringConverter] chosen when the port is declared:

	func (Move) ProvidedPorts() btcore.PortsList {
		return btcore.NewPortsList(
			btcore.InputPort[float64]("speed", "meters per second"),
			btcore.InputPortWithDefault("retries", 3, "attempts before failing"),
			btcore.OutputPort[btcore.NodeStatus]("result", ""),
		)
	}

Node types that declare nothing get an empty [PortsList] from
[ProvidedPorts].

# Errors

Two classes of failure are kept apart. Schema mistakes, such as an invalid
port name or converting text for a type nothing knows how to parse, panic
with *[RuntimeError] or *[LogicError]; they are found the first time the code
runs. Malformed data, such as "abc" for an int port, is returned as an error
wrapping [ErrConversion], or as an [Expected] holding that error.

# Registration

[DefaultConverters] is populated while packages initialise. Further
registration is expected to finish before concurrent use begins; lookups are
safe from any goroutine.
*/
package btcore
