/*
Package config holds the settings for a relink run.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+ +-----+----+ +-----+----+
	|   YAML   | |   JSON   | |   HCL    |
	|  Parser  | |  Parser  | |  Parser  |
	+----------+ +----------+ +----------+

🎯 Purpose:
- Replaces compiled-in constants with one explicit settings value
- Fills defaults (root ".", the published site URL, the scanned extensions)
- Validates the final URL, extensions, ignore globs and extra replacements
- Builds the ordered rule list handed to the rewriter

🔄 Flow:
1. Start from Default() or Load() a config file
2. Apply command line overrides
3. Validate()
4. Rules() for the rewriter

🔍 Example:

	cfg, err := config.Load(ctx, ".relink.yaml")
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
*/
package config
