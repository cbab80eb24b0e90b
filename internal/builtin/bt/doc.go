/*
Package bt provides the "btport:bt" JavaScript module, which lets scripts
running in goja inspect node declarations and convert port text the same way
Go code does.

# Exports

	status, nodeType, portDirection   name -> numeric value, e.g. status.RUNNING === 1
	parseStatus(text)                 numeric status; throws on unknown text
	statusName(value)                 canonical name of a numeric status
	isActive(status), isCompleted(status)
	convert(type, text)               converted value, e.g. convert("[]int", "1;2") -> [1, 2]
	toStr(type, text)                 canonical text after conversion
	types()                           registered type names
	ports(id)                         port descriptions of a registered node type
	manifests()                       every registered node type
	newBlackboard()                   a fresh blackboard (get/set/has/delete/keys/clear/len)

Status arguments accept either a name ("SUCCESS") or a number. Conversion
failures throw a GoError whose message names the type and the text.
*/
package bt
