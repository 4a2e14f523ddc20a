// Package hardware reads and writes the hardware descriptor: the YAML file
// reflecting physically committed kernel/bus configuration. Descriptor
// fields always override stored preference for the same value; adapter
// failures degrade to "no override available" rather than propagating.
package hardware
